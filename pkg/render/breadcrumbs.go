package render

import (
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/sequence"
)

// Crumb is one element of a breadcrumb trail. A crumb with an empty URL
// is rendered as plain text (the trailing current-page crumb).
type Crumb struct {
	Title string
	URL   string
}

// Breadcrumbs computes the breadcrumb trail for a page.
//
// With a course in context the trail is Course → Session → Lesson,
// followed by the page's subtitle (or derived title) as a non-link crumb
// when the page is not the lesson's index page. Any link missing from the
// content graph truncates the trail instead of failing; a standalone
// lesson yields just the Lesson crumb (plus the trailing page crumb).
func (r *Renderer) Breadcrumbs(page *model.Page, ctx Context) []Crumb {
	if page == nil {
		return nil
	}
	chain := sequence.ResolveAncestors(page, ctx.Index)

	var crumbs []Crumb
	if ctx.Course != nil {
		crumbs = append(crumbs, Crumb{
			Title: ctx.Course.Title,
			URL:   r.urls.CourseURL(ctx.Course),
		})
		if chain.Session != nil {
			crumbs = append(crumbs, Crumb{
				Title: chain.Session.Title,
				URL:   r.urls.SessionURL(chain.Session),
			})
		}
	}
	if chain.Lesson != nil {
		crumbs = append(crumbs, Crumb{
			Title: chain.Lesson.Title,
			URL:   r.urls.LessonURL(chain.Lesson, model.IndexPage),
		})
	}
	if !page.IsIndex() {
		title := page.Subtitle
		if title == "" {
			title = page.Title()
		}
		crumbs = append(crumbs, Crumb{Title: title})
	}
	return crumbs
}
