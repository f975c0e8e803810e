// Package render turns loaded course content into navigable HTML:
// prev/up/next navigation, breadcrumb trails, admonition callouts,
// license and attribution blocks, covered solution reveals and
// conditional math-rendering assets.
//
// Rendering is a pure function of the content graph plus an explicit
// Context; nothing here mutates the model or keeps per-request state.
package render

import (
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/sequence"
)

// Medium tells the renderer whether the output target is interactive.
// Print output gets no interactive affordances: solution covers are not
// emitted at all.
type Medium int

const (
	MediumScreen Medium = iota
	MediumPrint
)

// URLResolver resolves content entities to servable URLs. The renderer
// treats it as opaque; the routing layer supplies an implementation.
type URLResolver interface {
	CourseURL(c *model.Course) string
	SessionURL(s *model.Session) string
	SessionPageURL(s *model.Session, pageSlug string) string
	LessonURL(l *model.Lesson, pageSlug string) string

	// StaticURL resolves a logical asset filename (mentor photos,
	// link-type icons, stylesheets) to a servable URL.
	StaticURL(filename string) string
}

// Context carries the per-render flags and references the navigation
// rules depend on. It is an explicit value, not ambient state: the caller
// decides whether the page is being viewed canonically, inside which
// course, and for which medium.
type Context struct {
	// Course the page is being viewed in, or nil for a standalone lesson.
	Course *model.Course

	// Index is the course's flattened material ordering. Nil when Course
	// is nil.
	Index *sequence.Index

	// Canonical marks the reference rendering of a lesson. Canonical
	// views suppress prev/up/next navigation entirely.
	Canonical bool

	// ForkFallback is set when the page actually rendered came from the
	// base course because the requested fork lacks it. It surfaces a
	// visible warning banner.
	ForkFallback bool

	Medium Medium
}

// Renderer renders pages and fragments. It is safe for concurrent use.
type Renderer struct {
	urls     URLResolver
	formats  Formats
	pipeline *Pipeline
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFormats overrides the date/time formatting callbacks.
func WithFormats(f Formats) Option {
	return func(r *Renderer) {
		r.formats = f
	}
}

// WithPipeline overrides the markdown content pipeline.
func WithPipeline(p *Pipeline) Option {
	return func(r *Renderer) {
		r.pipeline = p
	}
}

// New creates a Renderer with the given URL resolver.
func New(urls URLResolver, opts ...Option) *Renderer {
	r := &Renderer{
		urls:    urls,
		formats: DefaultFormats(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pipeline == nil {
		r.pipeline = NewPipeline()
	}
	return r
}

// URLs returns the renderer's URL resolver.
func (r *Renderer) URLs() URLResolver {
	return r.urls
}
