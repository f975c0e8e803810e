package render_test

import (
	"testing"

	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/render"
	"github.com/baloola/naucse/pkg/testutil"
)

func assertCrumbs(t *testing.T, got []render.Crumb, want []render.Crumb) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d crumbs %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i].Title != want[i].Title {
			t.Errorf("crumb %d title = %q, want %q", i, got[i].Title, want[i].Title)
		}
		if got[i].URL != want[i].URL {
			t.Errorf("crumb %d URL = %q, want %q", i, got[i].URL, want[i].URL)
		}
	}
}

func TestBreadcrumbsIndexPage(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 1)
	ctx := courseContext(course)

	crumbs := r.Breadcrumbs(indexPageOf(ctx, 0), ctx)
	assertCrumbs(t, crumbs, []render.Crumb{
		{Title: "Test Course", URL: "/courses/test/"},
		{Title: "Session 1", URL: "/courses/test/sessions/session-1/"},
		{Title: "Lesson 1.1", URL: "/lessons/test/lesson-1-1/"},
	})
}

func TestBreadcrumbsSecondaryPageAppendsNonLink(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 1)
	ctx := courseContext(course)

	lesson := ctx.Index.Materials()[0].Lesson()
	page := testutil.AddPage(lesson, "part-b", "Part B", "more")

	crumbs := r.Breadcrumbs(page, ctx)
	if len(crumbs) != 4 {
		t.Fatalf("got %d crumbs %+v, want 4", len(crumbs), crumbs)
	}
	last := crumbs[3]
	if last.Title != "Part B" {
		t.Errorf("trailing crumb title = %q, want the subtitle", last.Title)
	}
	if last.URL != "" {
		t.Errorf("trailing crumb must not be a link, got URL %q", last.URL)
	}
}

func TestBreadcrumbsStandaloneLesson(t *testing.T) {
	r := newTestRenderer()

	lesson := &model.Lesson{Slug: "beginners/loops", Title: "Loops", Pages: map[string]*model.Page{}}
	index := &model.Page{Slug: model.IndexPage, Lesson: lesson}
	lesson.Pages[model.IndexPage] = index
	secondary := testutil.AddPage(lesson, "exercises", "Exercises", "...")

	ctx := render.Context{Medium: render.MediumScreen}

	assertCrumbs(t, r.Breadcrumbs(index, ctx), []render.Crumb{
		{Title: "Loops", URL: "/lessons/beginners/loops/"},
	})
	assertCrumbs(t, r.Breadcrumbs(secondary, ctx), []render.Crumb{
		{Title: "Loops", URL: "/lessons/beginners/loops/"},
		{Title: "Exercises"},
	})
}

func TestBreadcrumbsSolutionPageUsesDerivedTitle(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 1)
	ctx := courseContext(course)

	lesson := ctx.Index.Materials()[0].Lesson()
	page := testutil.AddSolutionPage(lesson, 1, "the answer")

	crumbs := r.Breadcrumbs(page, ctx)
	last := crumbs[len(crumbs)-1]
	if last.Title != "Lesson 1.1 – Solution [1]" {
		t.Errorf("trailing crumb = %q", last.Title)
	}
}

func TestBreadcrumbsNilPage(t *testing.T) {
	r := newTestRenderer()
	if crumbs := r.Breadcrumbs(nil, render.Context{}); crumbs != nil {
		t.Errorf("nil page should yield no crumbs, got %+v", crumbs)
	}
}
