package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/baloola/naucse/pkg/model"
)

// ForkWarning is the banner text shown when the rendered page was
// substituted from the base course because the viewed fork lacks it.
const ForkWarning = "You are looking at the original version of this page. " +
	"This course has its own copy of the materials, but this page is not part of it."

type pageData struct {
	Title        string
	BaseCSS      string
	HighlightCSS string
	KatexHead    template.HTML
	PageCSS      template.CSS
	ForkWarning  string
	Breadcrumbs  []Crumb
	Content      template.HTML
	Attribution  template.HTML
	License      template.HTML
	Nav          *NavLinks
	SolutionJS   string
}

// RenderPage renders one lesson page as a complete HTML document.
//
// The page body goes through the content pipeline; a page that is itself
// a solution write-up is wrapped in a covered solution block. Every
// fresh render starts covered; reveal state never persists server-side.
func (r *Renderer) RenderPage(w io.Writer, page *model.Page, ctx Context) error {
	if page == nil {
		return fmt.Errorf("no page to render")
	}
	lesson := page.Lesson

	content, err := r.pipeline.Render(page.Content)
	if err != nil {
		return fmt.Errorf("rendering page %s: %w", page.Slug, err)
	}
	if page.Solution != nil {
		content = SolutionBlock(page.Solution.Index, content, ctx.Medium)
	}

	katexHead, err := KatexHead(lesson)
	if err != nil {
		return err
	}

	data := pageData{
		Title:        page.Title(),
		BaseCSS:      r.urls.StaticURL("naucse.css"),
		HighlightCSS: r.urls.StaticURL("highlight.css"),
		KatexHead:    katexHead,
		PageCSS:      template.CSS(page.CSS),
		Breadcrumbs:  r.Breadcrumbs(page, ctx),
		Content:      content,
		Nav:          r.Navigation(page, ctx),
	}
	if ctx.ForkFallback {
		data.ForkWarning = ForkWarning
	}
	if lesson != nil {
		data.Attribution = FormatAttribution(lesson.Attribution)
		data.License = FormatLicense(lesson.License, lesson.CodeLicense)
	}
	if ctx.Medium == MediumScreen {
		data.SolutionJS = r.urls.StaticURL("solution.js")
	}

	return pageTemplates.ExecuteTemplate(w, "page.html.tmpl", data)
}

type coverData struct {
	Title        string
	Content      template.HTML
	SessionTitle string
	SessionURL   string
	Breadcrumbs  []Crumb
	BaseCSS      string
}

// RenderSessionPage renders a session cover page ("front" or "back").
// The title distinguishes the two; the back cover is what the last
// material's next link points at.
func (r *Renderer) RenderSessionPage(w io.Writer, sp *model.SessionPage, ctx Context) error {
	if sp == nil || sp.Session == nil {
		return fmt.Errorf("no session page to render")
	}
	session := sp.Session

	title := session.Title
	switch sp.Slug {
	case model.FrontPage:
		title = "Start: " + session.Title
	case model.BackPage:
		title = "End: " + session.Title
	}

	data := coverData{
		Title:        title,
		Content:      r.pipeline.SanitizeFragment(sp.Content),
		SessionTitle: session.Title,
		SessionURL:   r.urls.SessionURL(session),
		BaseCSS:      r.urls.StaticURL("naucse.css"),
	}
	if ctx.Course != nil {
		data.Breadcrumbs = []Crumb{
			{Title: ctx.Course.Title, URL: r.urls.CourseURL(ctx.Course)},
			{Title: session.Title, URL: r.urls.SessionURL(session)},
			{Title: title},
		}
	}

	return pageTemplates.ExecuteTemplate(w, "cover.html.tmpl", data)
}

type sessionMaterial struct {
	Title string
	Type  model.MaterialType
	URL   string
}

type sessionData struct {
	Title       string
	Serial      string
	Date        string
	Time        string
	Description template.HTML
	Breadcrumbs []Crumb
	Materials   []sessionMaterial
	BaseCSS     string
}

// RenderSession renders a session overview page: serial, date and time,
// description, and the material list.
func (r *Renderer) RenderSession(w io.Writer, session *model.Session, ctx Context) error {
	if session == nil {
		return fmt.Errorf("no session to render")
	}

	data := sessionData{
		Title:       session.Title,
		Serial:      session.Serial,
		Description: r.pipeline.SanitizeFragment(session.Description),
		BaseCSS:     r.urls.StaticURL("naucse.css"),
	}
	if !session.Date.IsZero() {
		data.Date = r.formats.Date(session.Date)
	}
	if session.Time != nil {
		data.Time = fmt.Sprintf("%s – %s",
			r.formats.Time(session.Time.Start), r.formats.Time(session.Time.End))
	}
	if ctx.Course != nil {
		data.Breadcrumbs = []Crumb{
			{Title: ctx.Course.Title, URL: r.urls.CourseURL(ctx.Course)},
			{Title: session.Title},
		}
	}
	for _, m := range session.Materials {
		sm := sessionMaterial{Title: materialTitle(m, m.Lesson()), Type: m.Type}
		if lesson := m.Lesson(); lesson != nil {
			sm.URL = r.urls.LessonURL(lesson, model.IndexPage)
		} else if m.ExternalURL != "" {
			sm.URL = m.ExternalURL
		}
		data.Materials = append(data.Materials, sm)
	}

	return pageTemplates.ExecuteTemplate(w, "session.html.tmpl", data)
}

type courseMentor struct {
	Name   string
	Role   string
	ImgURL string
	Links  []model.MentorLink
}

type courseSession struct {
	Title       string
	URL         string
	Date        string
	Description template.HTML
}

type courseData struct {
	Title           string
	Subtitle        string
	DateRange       string
	TimeDescription string
	Place           string
	LongDescription template.HTML
	Mentors         []courseMentor
	Sessions        []courseSession
	BaseCSS         string
}

// RenderCourse renders the course front page: descriptions, the optional
// date range and venue, mentors, and the session listing. Missing
// optional attributes simply omit their fragment.
func (r *Renderer) RenderCourse(w io.Writer, course *model.Course) error {
	if course == nil {
		return fmt.Errorf("no course to render")
	}

	data := courseData{
		Title:           course.Title,
		Subtitle:        course.Subtitle,
		TimeDescription: course.TimeDescription,
		Place:           course.Place,
		LongDescription: r.pipeline.SanitizeFragment(course.LongDescription),
		BaseCSS:         r.urls.StaticURL("naucse.css"),
	}
	if !course.StartDate.IsZero() || !course.EndDate.IsZero() {
		data.DateRange = r.formats.DateRange(course.StartDate, course.EndDate)
	}
	for _, m := range course.Mentors {
		cm := courseMentor{Name: m.Name, Role: m.Role, Links: m.Links}
		if m.Img != "" {
			cm.ImgURL = r.urls.StaticURL(m.Img)
		}
		data.Mentors = append(data.Mentors, cm)
	}
	for _, s := range course.Sessions {
		cs := courseSession{
			Title:       s.Title,
			URL:         r.urls.SessionURL(s),
			Description: r.pipeline.SanitizeFragment(s.Description),
		}
		if !s.Date.IsZero() {
			cs.Date = r.formats.Date(s.Date)
		}
		data.Sessions = append(data.Sessions, cs)
	}

	return pageTemplates.ExecuteTemplate(w, "course.html.tmpl", data)
}
