// Package model defines the content records a loaded course is made of:
// Course, Session, Material, Lesson and Page, plus the small supporting
// types (licenses, mentors, dates).
//
// All records are constructed once by the loader and never mutated
// afterwards. Rendering code treats them as read-only; derived state such
// as the flattened material ordering lives in pkg/sequence, not here.
package model

import (
	"fmt"
	"strings"
)

// MaterialType classifies a material for icon selection in session listings.
type MaterialType string

const (
	MaterialLesson     MaterialType = "lesson"
	MaterialHomework   MaterialType = "homework"
	MaterialCheatsheet MaterialType = "cheatsheet"
	MaterialLink       MaterialType = "link"
	MaterialSpecial    MaterialType = "special"
)

// KnownMaterialTypes lists the accepted material type values.
var KnownMaterialTypes = []MaterialType{
	MaterialLesson,
	MaterialHomework,
	MaterialCheatsheet,
	MaterialLink,
	MaterialSpecial,
}

// Course is a collection of sessions, either a dated run or a canonical
// self-study course.
type Course struct {
	Slug     string
	Title    string
	Subtitle string

	// Description is a short one-line summary; LongDescription is an HTML
	// fragment of up to several paragraphs.
	Description     string
	LongDescription string

	Place           string
	TimeDescription string

	StartDate Date
	EndDate   Date

	// DefaultTime is the default start/end window applied to sessions that
	// have a date but no explicit time.
	DefaultTime *TimeInterval

	// Canonical marks the course as the reference copy of its lessons,
	// rendered outside any specific run.
	Canonical bool

	// Derives is the slug of the course this one was forked from, if any.
	Derives string

	// Base is the resolved canonical course named by Derives, or nil when
	// Derives is empty or names an unknown course (non-owning reference).
	Base *Course

	Mentors []Mentor

	// Sessions keeps insertion order; that order is the display order and
	// the first component of the flattened material ordering.
	Sessions []*Session

	// Lessons maps lesson slug to the loaded lesson content.
	Lessons map[string]*Lesson

	// Vars holds free-form defaults forwarded to page rendering.
	Vars map[string]string

	// Etag changes whenever the course content changes.
	Etag string
}

// Session returns the session with the given slug, or nil.
func (c *Course) Session(slug string) *Session {
	for _, s := range c.Sessions {
		if s.Slug == slug {
			return s
		}
	}
	return nil
}

// Validate checks course-level invariants, including those of all owned
// sessions and lessons.
func (c *Course) Validate() error {
	if c.Slug == "" {
		return fmt.Errorf("course has no slug")
	}
	if c.Title == "" {
		return fmt.Errorf("course %s has no title", c.Slug)
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("course %s ends (%s) before it starts (%s)", c.Slug, c.EndDate, c.StartDate)
	}
	seen := make(map[string]bool, len(c.Sessions))
	for _, s := range c.Sessions {
		if seen[s.Slug] {
			return fmt.Errorf("course %s: duplicate session slug %q", c.Slug, s.Slug)
		}
		seen[s.Slug] = true
		if err := s.Validate(); err != nil {
			return fmt.Errorf("course %s: %w", c.Slug, err)
		}
	}
	for slug, lesson := range c.Lessons {
		if err := lesson.Validate(); err != nil {
			return fmt.Errorf("course %s: lesson %s: %w", c.Slug, slug, err)
		}
	}
	return nil
}

// Session is one meeting of a course, or a self-contained section of a
// longer workshop. A session is exclusively owned by its course.
type Session struct {
	Slug  string
	Title string

	// Serial is a human-readable position marker ("1", "2", ... or
	// "i", "ii" for appendices). Empty when the course doesn't number
	// its sessions.
	Serial string

	Date Date

	// Description is a short HTML fragment.
	Description string

	Materials []*Material

	// Pages holds the session's cover pages. The loader guarantees the
	// synthetic "front" and "back" pages exist.
	Pages map[string]*SessionPage

	// Time is the resolved start/end of the meeting, or nil when neither
	// an explicit time nor a date plus course default window is known.
	Time *SessionTime

	// Course is the owning course (non-owning back-reference).
	Course *Course
}

// FrontPage and BackPage are the slugs of the synthetic session cover pages.
const (
	FrontPage = "front"
	BackPage  = "back"
)

// Validate checks session-level invariants, including its materials.
func (s *Session) Validate() error {
	if s.Slug == "" {
		return fmt.Errorf("session has no slug")
	}
	if s.Title == "" {
		return fmt.Errorf("session %s has no title", s.Slug)
	}
	for i, m := range s.Materials {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("session %s: material %d: %w", s.Slug, i, err)
		}
	}
	return nil
}

// SessionTime is the resolved wall-clock span of one session.
type SessionTime struct {
	Start TimeOfDay
	End   TimeOfDay
}

// SessionPage is a session-specific page, e.g. the front or back cover.
type SessionPage struct {
	Slug    string
	Content string // HTML fragment

	Session *Session
}

// Material is one entry in a session's material list: usually a link to a
// lesson, sometimes an external link or an unlinked heading.
type Material struct {
	Slug  string
	Title string
	Type  MaterialType

	// ExternalURL links to content outside this site. Mutually exclusive
	// with LessonSlug.
	ExternalURL string

	// LessonSlug names the lesson this material refers to, if any.
	LessonSlug string

	// FromBase marks a material whose lesson was substituted from the
	// default lesson tree because the course's own fork lacks it. Pages
	// of such lessons render with a visible warning banner.
	FromBase bool

	// Session is the owning session (non-owning back-reference).
	Session *Session
}

// Lesson returns the lesson this material refers to, or nil for external
// links and unlinked materials.
func (m *Material) Lesson() *Lesson {
	if m.LessonSlug == "" || m.Session == nil || m.Session.Course == nil {
		return nil
	}
	return m.Session.Course.Lessons[m.LessonSlug]
}

// Validate checks material invariants.
func (m *Material) Validate() error {
	if m.ExternalURL != "" && m.LessonSlug != "" {
		return fmt.Errorf("material %q: external_url and lesson are incompatible", m.Title)
	}
	if m.Type != "" && !knownMaterialType(m.Type) {
		return fmt.Errorf("material %q: unknown type %q (known: %s)",
			m.Title, m.Type, joinMaterialTypes())
	}
	return nil
}

func knownMaterialType(t MaterialType) bool {
	for _, k := range KnownMaterialTypes {
		if t == k {
			return true
		}
	}
	return false
}

func joinMaterialTypes() string {
	parts := make([]string, len(KnownMaterialTypes))
	for i, k := range KnownMaterialTypes {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
