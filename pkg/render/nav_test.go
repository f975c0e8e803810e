package render_test

import (
	"testing"

	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/render"
	"github.com/baloola/naucse/pkg/testutil"
)

func TestNavigationSuppressedForCanonical(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 2)
	ctx := courseContext(course)
	ctx.Canonical = true

	if nav := r.Navigation(indexPageOf(ctx, 0), ctx); nav != nil {
		t.Errorf("canonical rendering must have no navigation, got %+v", nav)
	}
}

func TestNavigationSuppressedWithoutMaterial(t *testing.T) {
	r := newTestRenderer()

	lesson := &model.Lesson{Slug: "beginners/loops", Title: "Loops", Pages: map[string]*model.Page{}}
	page := &model.Page{Slug: model.IndexPage, Lesson: lesson}
	lesson.Pages[model.IndexPage] = page

	ctx := render.Context{Medium: render.MediumScreen}
	if nav := r.Navigation(page, ctx); nav != nil {
		t.Errorf("standalone lesson must have no navigation, got %+v", nav)
	}
}

func TestNavigationMiddleMaterial(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 3)
	ctx := courseContext(course)

	nav := r.Navigation(indexPageOf(ctx, 1), ctx)
	if nav == nil {
		t.Fatal("expected navigation")
	}

	if nav.Prev == nil || nav.Prev.Title != "Lesson 1.1" {
		t.Errorf("prev = %+v, want previous material", nav.Prev)
	}
	if nav.Next == nil || nav.Next.Title != "Lesson 1.3" {
		t.Errorf("next = %+v, want next material", nav.Next)
	}
	if nav.Up == nil || nav.Up.Title != "Lesson: Session 1" {
		t.Errorf("up = %+v, want session link with Lesson: prefix", nav.Up)
	}
	if nav.Up.URL != "/courses/test/sessions/session-1/" {
		t.Errorf("up URL = %q", nav.Up.URL)
	}
}

func TestNavigationFirstMaterialHasNoPrev(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 2)
	ctx := courseContext(course)

	nav := r.Navigation(indexPageOf(ctx, 0), ctx)
	if nav == nil {
		t.Fatal("expected navigation")
	}
	if nav.Prev != nil {
		t.Errorf("first material's index page should have no prev, got %+v", nav.Prev)
	}
}

func TestNavigationLastMaterialEndsAtBackCover(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 2)
	ctx := courseContext(course)

	nav := r.Navigation(indexPageOf(ctx, 1), ctx)
	if nav == nil {
		t.Fatal("expected navigation")
	}
	if nav.Next == nil {
		t.Fatal("last material still needs a next link")
	}
	if nav.Next.Title != render.EndOfLessonLabel {
		t.Errorf("next title = %q, want %q", nav.Next.Title, render.EndOfLessonLabel)
	}
	if nav.Next.URL != "/courses/test/sessions/session-1/back/" {
		t.Errorf("next URL = %q, want the session back cover", nav.Next.URL)
	}
}

func TestNavigationCrossesSessions(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(2, 1)
	ctx := courseContext(course)

	nav := r.Navigation(indexPageOf(ctx, 0), ctx)
	if nav == nil || nav.Next == nil {
		t.Fatal("expected next into the following session")
	}
	if nav.Next.Title != "Lesson 2.1" {
		t.Errorf("next = %+v, want the next session's first material", nav.Next)
	}
}

func TestNavigationSecondaryPagePrevIsDefaultPage(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(1, 2)
	ctx := courseContext(course)

	lesson := ctx.Index.Materials()[1].Lesson()
	secondary := testutil.AddPage(lesson, "exercises", "Exercises", "some exercises")

	nav := r.Navigation(secondary, ctx)
	if nav == nil || nav.Prev == nil {
		t.Fatal("expected prev on a secondary page")
	}
	// Not the previous material: back to this lesson's own default page.
	if nav.Prev.Title != "Lesson 1.2" {
		t.Errorf("prev title = %q, want the lesson's own title", nav.Prev.Title)
	}
	if nav.Prev.URL != "/lessons/test/lesson-1-2/" {
		t.Errorf("prev URL = %q, want the lesson default page", nav.Prev.URL)
	}
}

func TestNavigationEmptySessionIsCrossed(t *testing.T) {
	r := newTestRenderer()
	course := testutil.NewDefault().Course(3, 1)
	course.Sessions[1].Materials = nil
	ctx := courseContext(course)

	nav := r.Navigation(indexPageOf(ctx, 0), ctx)
	if nav == nil || nav.Next == nil {
		t.Fatal("expected next across the empty session")
	}
	if nav.Next.Title != "Lesson 3.1" {
		t.Errorf("next = %+v, want the material after the empty session", nav.Next)
	}
}
