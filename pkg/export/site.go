// Package export writes a loaded content root out as a static HTML site:
// one directory per course with its session, cover and lesson pages, the
// shared stylesheets and reveal script, per-lesson static files, and a
// JSON dump of the course metadata.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/baloola/naucse/pkg/debug"
	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/render"
	"github.com/baloola/naucse/pkg/sequence"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithBaseURL sets the URL prefix pages are exported under. Defaults to "/".
func WithBaseURL(base string) Option {
	return func(e *Exporter) {
		e.baseURL = base
	}
}

// WithContentDir tells the exporter where lesson static files live so it
// can copy them alongside the rendered pages.
func WithContentDir(dir string) Option {
	return func(e *Exporter) {
		e.contentDir = dir
	}
}

// WithFormats overrides the date/time formatting of rendered pages.
func WithFormats(f render.Formats) Option {
	return func(e *Exporter) {
		e.formats = &f
	}
}

// Exporter renders courses into a static site directory.
type Exporter struct {
	out        string
	baseURL    string
	contentDir string
	formats    *render.Formats
	pipeline   *render.Pipeline
}

// New creates an exporter writing into the out directory.
func New(out string, opts ...Option) *Exporter {
	e := &Exporter{
		out:      out,
		baseURL:  "/",
		pipeline: render.NewPipeline(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !strings.HasSuffix(e.baseURL, "/") {
		e.baseURL += "/"
	}
	return e
}

// Export writes the whole root: shared assets, every course, and a
// canonical copy of every shared lesson under lessons/.
func (e *Exporter) Export(root *loader.Root) error {
	defer metrics.Timer(metrics.SiteExport)()
	if err := e.writeAssets(); err != nil {
		return err
	}
	for _, slug := range sortedKeys(root.Courses) {
		if err := e.ExportCourse(root.Courses[slug]); err != nil {
			return fmt.Errorf("exporting course %s: %w", slug, err)
		}
	}
	for _, slug := range sortedKeys(root.Lessons) {
		if err := e.exportCanonicalLesson(root.Lessons[slug]); err != nil {
			return fmt.Errorf("exporting lesson %s: %w", slug, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportCourse writes one course: the front page, each session with its
// cover pages, the course's own copy of every linked lesson page, the
// lesson static files, and the course JSON dump.
func (e *Exporter) ExportCourse(course *model.Course) error {
	debug.Log("export: course %s", course.Slug)

	idx := sequence.Build(course)
	urls := &siteURLs{base: e.baseURL, course: course}
	r := e.newRenderer(urls)
	ctx := render.Context{Course: course, Index: idx, Medium: render.MediumScreen}

	if err := e.writePage(coursePath(course), func(w io.Writer) error {
		return r.RenderCourse(w, course)
	}); err != nil {
		return err
	}

	for _, session := range course.Sessions {
		session := session
		if err := e.writePage(sessionPath(session), func(w io.Writer) error {
			return r.RenderSession(w, session, ctx)
		}); err != nil {
			return err
		}
		for slug, sp := range session.Pages {
			sp := sp
			if err := e.writePage(sessionPagePath(session, slug), func(w io.Writer) error {
				return r.RenderSessionPage(w, sp, ctx)
			}); err != nil {
				return err
			}
		}
	}

	seen := make(map[string]bool)
	for _, m := range idx.Materials() {
		lesson := m.Lesson()
		if lesson == nil || seen[lesson.Slug] {
			continue
		}
		seen[lesson.Slug] = true
		pctx := ctx
		pctx.ForkFallback = m.FromBase
		if err := e.exportLesson(r, course, lesson, pctx); err != nil {
			return err
		}
	}

	return e.writeCourseJSON(course)
}

// exportLesson writes the course's embedded copy of a lesson: every page
// under the course path, with that course's navigation and breadcrumbs.
func (e *Exporter) exportLesson(r *render.Renderer, course *model.Course, lesson *model.Lesson, ctx render.Context) error {
	for _, slug := range lesson.PageOrder {
		page := lesson.Pages[slug]
		if err := e.writePage(courseLessonPath(course, lesson, slug), func(w io.Writer) error {
			return r.RenderPage(w, page, ctx)
		}); err != nil {
			return fmt.Errorf("lesson %s page %s: %w", lesson.Slug, slug, err)
		}
	}
	return e.copyLessonStatic(lesson)
}

// exportCanonicalLesson writes the reference copy of a lesson under
// lessons/<slug>/: no course context, no prev/up/next navigation.
func (e *Exporter) exportCanonicalLesson(lesson *model.Lesson) error {
	r := e.newRenderer(&siteURLs{base: e.baseURL})
	ctx := render.Context{Canonical: true, Medium: render.MediumScreen}
	for _, slug := range lesson.PageOrder {
		page := lesson.Pages[slug]
		if err := e.writePage(canonicalLessonPath(lesson, slug), func(w io.Writer) error {
			return r.RenderPage(w, page, ctx)
		}); err != nil {
			return fmt.Errorf("page %s: %w", slug, err)
		}
	}
	return e.copyLessonStatic(lesson)
}

// copyLessonStatic copies a lesson's static files under static/lessons/.
func (e *Exporter) copyLessonStatic(lesson *model.Lesson) error {
	if len(lesson.StaticFiles) == 0 {
		return nil
	}
	lessonDir := lesson.SourceDir
	if lessonDir == "" {
		if e.contentDir == "" {
			return nil
		}
		lessonDir = filepath.Join(e.contentDir, "lessons", filepath.FromSlash(lesson.Slug))
	}
	for name, rel := range lesson.StaticFiles {
		src := filepath.Join(lessonDir, filepath.FromSlash(rel))
		dst := filepath.Join(e.out, "static", "lessons", filepath.FromSlash(lesson.Slug), name)
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("lesson %s static file %s: %w", lesson.Slug, name, err)
		}
	}
	return nil
}

// writeAssets copies the embedded stylesheets and reveal script, and
// generates the code-highlighting stylesheet from the pipeline's style.
func (e *Exporter) writeAssets() error {
	staticDir := filepath.Join(e.out, "static")
	if err := os.MkdirAll(staticDir, 0755); err != nil {
		return err
	}
	for _, name := range render.AssetNames {
		data, err := render.Asset(name)
		if err != nil {
			return fmt.Errorf("embedded asset %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(staticDir, name), data, 0644); err != nil {
			return err
		}
	}

	var css bytes.Buffer
	if err := e.pipeline.WriteHighlightCSS(&css); err != nil {
		return fmt.Errorf("highlight stylesheet: %w", err)
	}
	return os.WriteFile(filepath.Join(staticDir, "highlight.css"), css.Bytes(), 0644)
}

func (e *Exporter) newRenderer(urls render.URLResolver) *render.Renderer {
	opts := []render.Option{render.WithPipeline(e.pipeline)}
	if e.formats != nil {
		opts = append(opts, render.WithFormats(*e.formats))
	}
	return render.New(urls, opts...)
}

// writePage renders into <out>/<relPath>/index.html.
func (e *Exporter) writePage(relPath string, renderFn func(io.Writer) error) error {
	dir := filepath.Join(e.out, filepath.FromSlash(relPath))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderFn(&buf); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0644)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

// courseBase maps a course slug to its URL path segment. Canonical
// courses live under course/<name>; dated runs keep their <year>/<name>
// slug as-is.
func courseBase(c *model.Course) string {
	if name, ok := strings.CutPrefix(c.Slug, "courses/"); ok {
		return "course/" + name
	}
	return c.Slug
}

func coursePath(c *model.Course) string {
	return courseBase(c)
}

func sessionPath(s *model.Session) string {
	return path.Join(courseBase(s.Course), "sessions", s.Slug)
}

func sessionPagePath(s *model.Session, pageSlug string) string {
	return path.Join(sessionPath(s), pageSlug)
}

// courseLessonPath is where a course's own copy of a lesson page lives.
// Every course embeds the lessons its materials reference so navigation
// and breadcrumbs stay course-specific.
func courseLessonPath(c *model.Course, l *model.Lesson, pageSlug string) string {
	if pageSlug == model.IndexPage {
		return path.Join(courseBase(c), l.Slug)
	}
	return path.Join(courseBase(c), l.Slug, pageSlug)
}

// canonicalLessonPath is where the course-independent reference copy of
// a lesson page lives.
func canonicalLessonPath(l *model.Lesson, pageSlug string) string {
	if pageSlug == model.IndexPage {
		return path.Join("lessons", l.Slug)
	}
	return path.Join("lessons", l.Slug, pageSlug)
}

// siteURLs resolves model entities to exported site URLs. Every page URL
// ends in a slash; the matching file is that directory's index.html.
// With a course set, lesson URLs point at that course's embedded copy;
// without one they point at the canonical copy under lessons/.
type siteURLs struct {
	base   string
	course *model.Course
}

func (u *siteURLs) CourseURL(c *model.Course) string {
	return u.base + coursePath(c) + "/"
}

func (u *siteURLs) SessionURL(s *model.Session) string {
	return u.base + sessionPath(s) + "/"
}

func (u *siteURLs) SessionPageURL(s *model.Session, pageSlug string) string {
	return u.base + sessionPagePath(s, pageSlug) + "/"
}

func (u *siteURLs) LessonURL(l *model.Lesson, pageSlug string) string {
	if u.course != nil {
		return u.base + courseLessonPath(u.course, l, pageSlug) + "/"
	}
	return u.base + canonicalLessonPath(l, pageSlug) + "/"
}

func (u *siteURLs) StaticURL(filename string) string {
	return u.base + "static/" + filename
}
