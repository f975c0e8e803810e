package render_test

import (
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/render"
	"github.com/baloola/naucse/pkg/sequence"
)

// testURLs resolves entities to predictable paths for assertions.
type testURLs struct{}

func (testURLs) CourseURL(c *model.Course) string {
	return "/" + c.Slug + "/"
}

func (testURLs) SessionURL(s *model.Session) string {
	return "/" + s.Course.Slug + "/sessions/" + s.Slug + "/"
}

func (testURLs) SessionPageURL(s *model.Session, pageSlug string) string {
	return "/" + s.Course.Slug + "/sessions/" + s.Slug + "/" + pageSlug + "/"
}

func (testURLs) LessonURL(l *model.Lesson, pageSlug string) string {
	if pageSlug == model.IndexPage {
		return "/lessons/" + l.Slug + "/"
	}
	return "/lessons/" + l.Slug + "/" + pageSlug + "/"
}

func (testURLs) StaticURL(filename string) string {
	return "/static/" + filename
}

func newTestRenderer() *render.Renderer {
	return render.New(testURLs{})
}

// courseContext builds a screen-medium context over a fixture course.
func courseContext(course *model.Course) render.Context {
	return render.Context{
		Course: course,
		Index:  sequence.Build(course),
		Medium: render.MediumScreen,
	}
}

// indexPageOf returns the index page of the lesson behind the i-th
// sequenced material.
func indexPageOf(ctx render.Context, i int) *model.Page {
	return ctx.Index.Materials()[i].Lesson().Index()
}
