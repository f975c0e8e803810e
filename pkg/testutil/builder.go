// Package testutil provides course fixture builders and assertion helpers.
// All builders produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/baloola/naucse/pkg/model"
)

// BuilderConfig controls fixture generation.
type BuilderConfig struct {
	SlugPrefix string     // Prefix for generated slugs (default: "test")
	BaseDate   model.Date // Date of the first session (default: 2025-01-06)
	DateStep   int        // Days between sessions (default: 7)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() BuilderConfig {
	return BuilderConfig{
		SlugPrefix: "test",
		BaseDate:   model.Date{Year: 2025, Month: time.January, Day: 6},
		DateStep:   7,
	}
}

// Builder creates deterministic course fixtures.
type Builder struct {
	cfg BuilderConfig
}

// New creates a Builder with the given config.
func New(cfg BuilderConfig) *Builder {
	if cfg.SlugPrefix == "" {
		cfg.SlugPrefix = "test"
	}
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = model.Date{Year: 2025, Month: time.January, Day: 6}
	}
	if cfg.DateStep == 0 {
		cfg.DateStep = 7
	}
	return &Builder{cfg: cfg}
}

// NewDefault creates a Builder with default config.
func NewDefault() *Builder {
	return New(DefaultConfig())
}

// Course builds a course with the given number of sessions, each holding
// materialsPerSession lesson materials. Every material gets its own
// lesson with a single index page. Sessions are numbered and dated.
func (b *Builder) Course(numSessions, materialsPerSession int) *model.Course {
	course := &model.Course{
		Slug:    "courses/" + b.cfg.SlugPrefix,
		Title:   "Test Course",
		Lessons: make(map[string]*model.Lesson),
	}

	for i := 0; i < numSessions; i++ {
		session := b.session(course, i)
		for j := 0; j < materialsPerSession; j++ {
			lesson := b.lesson(i, j)
			course.Lessons[lesson.Slug] = lesson
			session.Materials = append(session.Materials, &model.Material{
				Title:      lesson.Title,
				Type:       model.MaterialLesson,
				LessonSlug: lesson.Slug,
				Session:    session,
			})
		}
		course.Sessions = append(course.Sessions, session)
	}
	if numSessions > 0 {
		course.StartDate = course.Sessions[0].Date
		course.EndDate = course.Sessions[numSessions-1].Date
	}
	return course
}

// EmptyCourse builds a course with the given number of sessions and no
// materials at all.
func (b *Builder) EmptyCourse(numSessions int) *model.Course {
	return b.Course(numSessions, 0)
}

func (b *Builder) session(course *model.Course, i int) *model.Session {
	slug := fmt.Sprintf("session-%d", i+1)
	session := &model.Session{
		Slug:   slug,
		Title:  fmt.Sprintf("Session %d", i+1),
		Serial: fmt.Sprintf("%d", i+1),
		Date:   b.dateFor(i),
		Pages:  make(map[string]*model.SessionPage),
		Course: course,
	}
	for _, pageSlug := range []string{model.FrontPage, model.BackPage} {
		session.Pages[pageSlug] = &model.SessionPage{Slug: pageSlug, Session: session}
	}
	return session
}

func (b *Builder) lesson(sessionIdx, materialIdx int) *model.Lesson {
	slug := fmt.Sprintf("%s/lesson-%d-%d", b.cfg.SlugPrefix, sessionIdx+1, materialIdx+1)
	lesson := &model.Lesson{
		Slug:  slug,
		Title: fmt.Sprintf("Lesson %d.%d", sessionIdx+1, materialIdx+1),
		Pages: make(map[string]*model.Page),
	}
	index := &model.Page{
		Slug:    model.IndexPage,
		Content: fmt.Sprintf("# %s\n\nBody of %s.\n", lesson.Title, lesson.Slug),
		Lesson:  lesson,
	}
	lesson.Pages[model.IndexPage] = index
	lesson.PageOrder = []string{model.IndexPage}
	return lesson
}

func (b *Builder) dateFor(i int) model.Date {
	t := b.cfg.BaseDate.Time().AddDate(0, 0, i*b.cfg.DateStep)
	return model.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// AddPage attaches a secondary page to a lesson and returns it.
func AddPage(lesson *model.Lesson, slug, subtitle, content string) *model.Page {
	page := &model.Page{
		Slug:     slug,
		Subtitle: subtitle,
		Content:  content,
		Lesson:   lesson,
	}
	lesson.Pages[slug] = page
	lesson.PageOrder = append(lesson.PageOrder, slug)
	return page
}

// AddSolutionPage attaches a solution page to a lesson and returns it.
// The ordinal is 1-based.
func AddSolutionPage(lesson *model.Lesson, ordinal int, content string) *model.Page {
	slug := fmt.Sprintf("solution-%d", ordinal)
	page := AddPage(lesson, slug, "", content)
	page.Solution = &model.SolutionRef{Index: ordinal}
	return page
}

// AddExternalMaterial appends a link-type material without a lesson.
func AddExternalMaterial(session *model.Session, title, url string) *model.Material {
	m := &model.Material{
		Title:       title,
		Type:        model.MaterialLink,
		ExternalURL: url,
		Session:     session,
	}
	session.Materials = append(session.Materials, m)
	return m
}
