// Package loader reads course content from a directory tree into model
// records. Layout:
//
//	content/
//	  licenses/<slug>/info.yml
//	  courses/<name>/info.yml          canonical self-study courses
//	  runs/<year>/<name>/info.yml      dated course runs
//	  lessons/<group>/<name>/info.yml  lesson metadata + page files
//
// A course directory may carry its own lessons/ subtree (a forked copy
// of the content). Materials resolve against that copy first; lessons it
// lacks fall back to the shared tree and are flagged so rendering can
// show a substitution warning.
//
// Everything is loaded once; the resulting records are immutable.
// Recoverable oddities (a material pointing at a missing lesson, stray
// files) are reported through the warning handler, not fatal errors.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
)

// InfoFileName is the metadata file every course, lesson and license
// directory must contain.
const InfoFileName = "info.yml"

// Options configures loading behavior.
type Options struct {
	// WarningHandler is called with warning messages (a material that
	// references a missing lesson, a run directory that isn't a year...).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)
}

func (o Options) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.WarningHandler != nil {
		o.WarningHandler(msg)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// Root is everything loaded from one content directory.
type Root struct {
	// Courses maps course slug ("courses/<name>" or "<year>/<name>") to
	// the loaded course.
	Courses map[string]*model.Course

	// Licenses is the registry of approved licenses.
	Licenses model.LicenseRegistry

	// Lessons maps lesson slug ("<group>/<name>") to the loaded lesson.
	// Courses share these pointers.
	Lessons map[string]*model.Lesson
}

// Course returns the course with the given slug, or an error naming it.
func (r *Root) Course(slug string) (*model.Course, error) {
	c, ok := r.Courses[slug]
	if !ok {
		return nil, fmt.Errorf("no course %q", slug)
	}
	return c, nil
}

// LoadRoot loads licenses, lessons, and all courses from a content
// directory. Courses load in parallel; the first hard error wins.
func LoadRoot(dir string, opts Options) (*Root, error) {
	defer metrics.Timer(metrics.ContentLoad)()
	root := &Root{
		Courses: make(map[string]*model.Course),
		Lessons: make(map[string]*model.Lesson),
	}

	licenses, err := loadLicenses(filepath.Join(dir, "licenses"))
	if err != nil {
		return nil, err
	}
	root.Licenses = licenses

	lessons, err := loadLessons(filepath.Join(dir, "lessons"), licenses, opts)
	if err != nil {
		return nil, err
	}
	root.Lessons = lessons

	type courseRef struct {
		slug      string
		path      string
		canonical bool
	}
	var refs []courseRef

	coursesDir := filepath.Join(dir, "courses")
	if entries, err := os.ReadDir(coursesDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			refs = append(refs, courseRef{
				slug:      "courses/" + e.Name(),
				path:      filepath.Join(coursesDir, e.Name()),
				canonical: true,
			})
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading courses directory: %w", err)
	}

	runsDir := filepath.Join(dir, "runs")
	if years, err := os.ReadDir(runsDir); err == nil {
		for _, y := range years {
			if !y.IsDir() {
				continue
			}
			if _, err := strconv.Atoi(y.Name()); err != nil {
				opts.warn("runs directory %q is not a year, skipping", y.Name())
				continue
			}
			runs, err := os.ReadDir(filepath.Join(runsDir, y.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading runs: %w", err)
			}
			for _, e := range runs {
				if !e.IsDir() {
					continue
				}
				refs = append(refs, courseRef{
					slug: y.Name() + "/" + e.Name(),
					path: filepath.Join(runsDir, y.Name(), e.Name()),
				})
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading runs directory: %w", err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, ref := range refs {
		g.Go(func() error {
			available := lessons
			local, err := loadLocalLessons(ref.path, ref.slug, licenses, opts)
			if err != nil {
				return err
			}
			if local != nil {
				available = make(map[string]*model.Lesson, len(lessons)+len(local))
				for slug, l := range lessons {
					available[slug] = l
				}
				for slug, l := range local {
					available[slug] = l
				}
			}
			course, err := LoadCourse(ref.path, ref.slug, available, opts)
			if err != nil {
				return err
			}
			course.Canonical = ref.canonical
			if local != nil {
				markBaseFallbacks(course, local, opts)
			}
			mu.Lock()
			root.Courses[ref.slug] = course
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for slug, course := range root.Courses {
		if course.Derives == "" {
			continue
		}
		base, ok := root.Courses["courses/"+course.Derives]
		if !ok {
			opts.warn("course %s derives from unknown course %q", slug, course.Derives)
			continue
		}
		course.Base = base
	}
	return root, nil
}

// loadLocalLessons loads a course's own lessons/ subtree, if it has one.
// A nil map means the course has no lessons of its own and serves every
// material from the shared tree.
func loadLocalLessons(courseDir, slug string, licenses model.LicenseRegistry, opts Options) (map[string]*model.Lesson, error) {
	dir := filepath.Join(courseDir, "lessons")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil
	}
	local, err := loadLessons(dir, licenses, opts)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", slug, err)
	}
	return local, nil
}

// markBaseFallbacks flags materials a forked course serves from the
// shared tree because its own lesson copy lacks them. Rendering surfaces
// the substitution as a warning banner.
func markBaseFallbacks(course *model.Course, local map[string]*model.Lesson, opts Options) {
	for _, session := range course.Sessions {
		for _, m := range session.Materials {
			if m.LessonSlug == "" || course.Lessons[m.LessonSlug] == nil {
				continue
			}
			if _, ok := local[m.LessonSlug]; ok {
				continue
			}
			m.FromBase = true
			opts.warn("course %s: lesson %q not in the course's own copy, serving the original",
				course.Slug, m.LessonSlug)
		}
	}
}

// courseInfo mirrors a course info.yml.
type courseInfo struct {
	Title           string              `yaml:"title"`
	Subtitle        string              `yaml:"subtitle,omitempty"`
	Description     string              `yaml:"description,omitempty"`
	LongDescription string              `yaml:"long_description,omitempty"`
	Place           string              `yaml:"place,omitempty"`
	TimeDescription string              `yaml:"time_description,omitempty"`
	DefaultTime     *model.TimeInterval `yaml:"default_time,omitempty"`
	Derives         string              `yaml:"derives,omitempty"`
	Vars            map[string]string   `yaml:"vars,omitempty"`
	Mentors         []model.Mentor      `yaml:"mentors,omitempty"`
	Sessions        []sessionInfo       `yaml:"sessions"`
}

type sessionInfo struct {
	Slug        string               `yaml:"slug"`
	Title       string               `yaml:"title"`
	Serial      string               `yaml:"serial,omitempty"`
	Date        model.Date           `yaml:"date,omitempty"`
	Description string               `yaml:"description,omitempty"`
	Time        *model.TimeInterval  `yaml:"time,omitempty"`
	Materials   []materialInfo       `yaml:"materials,omitempty"`
	Pages       map[string]pageCover `yaml:"pages,omitempty"`
}

type pageCover struct {
	Content string `yaml:"content,omitempty"`
}

type materialInfo struct {
	Title  string `yaml:"title,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Lesson string `yaml:"lesson,omitempty"`
	URL    string `yaml:"url,omitempty"`
}

// LoadCourse loads a single course directory. The lessons map supplies
// the shared lesson content; materials referencing unknown lessons are
// kept (they still render as titles) but reported as warnings.
func LoadCourse(dir, slug string, lessons map[string]*model.Lesson, opts Options) (*model.Course, error) {
	raw, err := os.ReadFile(filepath.Join(dir, InfoFileName))
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", slug, err)
	}
	var info courseInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("course %s: parsing %s: %w", slug, InfoFileName, err)
	}

	course := &model.Course{
		Slug:            slug,
		Title:           info.Title,
		Subtitle:        info.Subtitle,
		Description:     info.Description,
		LongDescription: info.LongDescription,
		Place:           info.Place,
		TimeDescription: info.TimeDescription,
		DefaultTime:     info.DefaultTime,
		Derives:         info.Derives,
		Vars:            info.Vars,
		Mentors:         info.Mentors,
		Lessons:         make(map[string]*model.Lesson),
	}

	for _, si := range info.Sessions {
		session := buildSession(si, course)
		course.Sessions = append(course.Sessions, session)
		for _, m := range session.Materials {
			if m.LessonSlug == "" {
				continue
			}
			lesson, ok := lessons[m.LessonSlug]
			if !ok {
				opts.warn("course %s: material %q references missing lesson %q",
					slug, m.Title, m.LessonSlug)
				continue
			}
			course.Lessons[m.LessonSlug] = lesson
		}
	}

	assignSerials(course)
	course.StartDate, course.EndDate = sessionDateSpan(course)

	if err := course.Validate(); err != nil {
		return nil, err
	}
	return course, nil
}

func buildSession(si sessionInfo, course *model.Course) *model.Session {
	session := &model.Session{
		Slug:        si.Slug,
		Title:       si.Title,
		Serial:      si.Serial,
		Date:        si.Date,
		Description: si.Description,
		Pages:       make(map[string]*model.SessionPage),
		Course:      course,
	}

	for _, mi := range si.Materials {
		session.Materials = append(session.Materials, &model.Material{
			Title:       mi.Title,
			Type:        model.MaterialType(mi.Type),
			LessonSlug:  mi.Lesson,
			ExternalURL: mi.URL,
			Session:     session,
		})
	}

	for pageSlug, cover := range si.Pages {
		session.Pages[pageSlug] = &model.SessionPage{
			Slug:    pageSlug,
			Content: cover.Content,
			Session: session,
		}
	}
	// The front and back covers always exist; navigation's "End of
	// lesson" link targets the back cover.
	for _, pageSlug := range []string{model.FrontPage, model.BackPage} {
		if _, ok := session.Pages[pageSlug]; !ok {
			session.Pages[pageSlug] = &model.SessionPage{Slug: pageSlug, Session: session}
		}
	}

	session.Time = resolveSessionTime(si, course)
	return session
}

// resolveSessionTime resolves a session's wall-clock span: an explicit
// time wins, then the session date combined with the course default
// window, else nothing.
func resolveSessionTime(si sessionInfo, course *model.Course) *model.SessionTime {
	if si.Time != nil {
		return &model.SessionTime{Start: si.Time.Start, End: si.Time.End}
	}
	if !si.Date.IsZero() && course.DefaultTime != nil {
		return &model.SessionTime{Start: course.DefaultTime.Start, End: course.DefaultTime.End}
	}
	return nil
}

// assignSerials numbers sessions from 1 when the course declares no
// serials of its own and has more than one session.
func assignSerials(course *model.Course) {
	if len(course.Sessions) < 2 {
		return
	}
	for _, s := range course.Sessions {
		if s.Serial != "" {
			return
		}
	}
	for i, s := range course.Sessions {
		s.Serial = strconv.Itoa(i + 1)
	}
}

func sessionDateSpan(course *model.Course) (start, end model.Date) {
	var dates []model.Date
	for _, s := range course.Sessions {
		if !s.Date.IsZero() {
			dates = append(dates, s.Date)
		}
	}
	if len(dates) == 0 {
		return model.Date{}, model.Date{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates[0], dates[len(dates)-1]
}
