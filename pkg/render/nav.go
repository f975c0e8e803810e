package render

import (
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/sequence"
)

// Link is one navigation target.
type Link struct {
	Title string
	URL   string
}

// NavLinks is the prev/up/next triple rendered under a lesson page.
// Any of the three may be nil (suppressed).
type NavLinks struct {
	Prev *Link
	Up   *Link
	Next *Link
}

// EndOfLessonLabel labels the link to the session's back cover when a
// material has no course-level successor.
const EndOfLessonLabel = "End of lesson"

// Navigation computes the prev/up/next links for a page.
//
// Navigation is suppressed entirely (nil) for canonical renderings and
// for lessons viewed outside any material context. Otherwise:
//
//   - on a secondary page, prev re-surfaces the lesson's default page;
//   - on the index page, prev is the course-level previous material;
//   - up links to the session overview when a session is known;
//   - next is the course-level next material, falling back to the
//     session's back cover ("End of lesson") when the material is last.
func (r *Renderer) Navigation(page *model.Page, ctx Context) *NavLinks {
	chain := sequence.ResolveAncestors(page, ctx.Index)
	if ctx.Canonical || chain.Material == nil {
		return nil
	}

	nav := &NavLinks{}
	lesson := chain.Lesson
	material := chain.Material
	session := chain.Session

	if !page.IsIndex() {
		nav.Prev = &Link{
			Title: materialTitle(material, lesson),
			URL:   r.urls.LessonURL(lesson, model.IndexPage),
		}
	} else if prev := ctx.Index.PrevOf(material); prev != nil {
		nav.Prev = r.materialLink(prev)
	}

	if session != nil {
		nav.Up = &Link{
			Title: "Lesson: " + session.Title,
			URL:   r.urls.SessionURL(session),
		}
	}

	if next := ctx.Index.NextOf(material); next != nil {
		nav.Next = r.materialLink(next)
	} else if session != nil {
		nav.Next = &Link{
			Title: EndOfLessonLabel,
			URL:   r.urls.SessionPageURL(session, model.BackPage),
		}
	}

	return nav
}

// materialLink builds a link to a material's lesson default page.
func (r *Renderer) materialLink(m *model.Material) *Link {
	lesson := m.Lesson()
	if lesson == nil {
		return nil
	}
	return &Link{
		Title: materialTitle(m, lesson),
		URL:   r.urls.LessonURL(lesson, model.IndexPage),
	}
}

func materialTitle(m *model.Material, lesson *model.Lesson) string {
	if m != nil && m.Title != "" {
		return m.Title
	}
	if lesson != nil {
		return lesson.Title
	}
	return ""
}
