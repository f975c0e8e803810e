package datasource

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
)

// BundleReader provides read access to a SQLite content bundle.
// A bundle has three tables (licenses, lessons, courses), each keyed by
// slug with a JSON payload column.
type BundleReader struct {
	db   *sql.DB
	path string
}

// OpenBundle opens a content bundle for reading.
func OpenBundle(source ContentSource) (*BundleReader, error) {
	if source.Type != SourceTypeBundle {
		return nil, fmt.Errorf("source is not a bundle: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open bundle: %w", err)
	}

	return &BundleReader{db: db, path: source.Path}, nil
}

// Close closes the bundle.
func (r *BundleReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// JSON payload shapes stored in a bundle. These mirror the model but with
// explicit tags; bundles are produced by `naucse -bundle` from a content
// tree, so the shapes only evolve with this package.

type bundleLicense struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type bundlePage struct {
	Slug     string `json:"slug"`
	Subtitle string `json:"subtitle,omitempty"`
	CSS      string `json:"css,omitempty"`
	Solution int    `json:"solution,omitempty"`
	Content  string `json:"content"`
}

type bundleLesson struct {
	Title       string            `json:"title"`
	Attribution []string          `json:"attribution,omitempty"`
	License     string            `json:"license,omitempty"`
	LicenseCode string            `json:"license_code,omitempty"`
	Modules     map[string]string `json:"modules,omitempty"`
	Static      map[string]string `json:"static,omitempty"`
	Pages       []bundlePage      `json:"pages"`
}

type bundleMaterial struct {
	Title    string `json:"title,omitempty"`
	Type     string `json:"type,omitempty"`
	Lesson   string `json:"lesson,omitempty"`
	URL      string `json:"url,omitempty"`
	FromBase bool   `json:"from_base,omitempty"`
}

type bundleSessionPage struct {
	Content string `json:"content,omitempty"`
}

type bundleSession struct {
	Slug        string                       `json:"slug"`
	Title       string                       `json:"title"`
	Serial      string                       `json:"serial,omitempty"`
	Date        string                       `json:"date,omitempty"`
	Description string                       `json:"description,omitempty"`
	Start       string                       `json:"start,omitempty"`
	End         string                       `json:"end,omitempty"`
	Materials   []bundleMaterial             `json:"materials,omitempty"`
	Pages       map[string]bundleSessionPage `json:"pages,omitempty"`
}

type bundleCourse struct {
	Title           string            `json:"title"`
	Subtitle        string            `json:"subtitle,omitempty"`
	Description     string            `json:"description,omitempty"`
	LongDescription string            `json:"long_description,omitempty"`
	Place           string            `json:"place,omitempty"`
	TimeDescription string            `json:"time_description,omitempty"`
	Canonical       bool              `json:"canonical,omitempty"`
	Derives         string            `json:"derives,omitempty"`
	Vars            map[string]string `json:"vars,omitempty"`
	Mentors         []model.Mentor    `json:"mentors,omitempty"`
	Sessions        []bundleSession   `json:"sessions"`
	Etag            string            `json:"etag,omitempty"`
}

// LoadRoot reads the whole bundle into a loader.Root.
func (r *BundleReader) LoadRoot() (*loader.Root, error) {
	defer metrics.Timer(metrics.BundleRead)()
	root := &loader.Root{
		Courses:  make(map[string]*model.Course),
		Licenses: make(model.LicenseRegistry),
		Lessons:  make(map[string]*model.Lesson),
	}

	if err := r.eachPayload("licenses", func(slug string, payload []byte) error {
		var bl bundleLicense
		if err := json.Unmarshal(payload, &bl); err != nil {
			return fmt.Errorf("license %s: %w", slug, err)
		}
		lic := &model.License{Slug: slug, Title: bl.Title, URL: bl.URL}
		if err := lic.Validate(); err != nil {
			return err
		}
		root.Licenses[slug] = lic
		return nil
	}); err != nil {
		return nil, err
	}

	// Fork-local lesson variants are stored under "<course>@<lesson>"
	// keys. They belong to one course only; the shared map stays clean.
	courseLessons := make(map[string]*model.Lesson)

	if err := r.eachPayload("lessons", func(slug string, payload []byte) error {
		var bl bundleLesson
		if err := json.Unmarshal(payload, &bl); err != nil {
			return fmt.Errorf("lesson %s: %w", slug, err)
		}
		if owner, lessonSlug, local := strings.Cut(slug, "@"); local {
			lesson, err := bl.toModel(lessonSlug, root.Licenses)
			if err != nil {
				return fmt.Errorf("course %s: %w", owner, err)
			}
			courseLessons[slug] = lesson
			return nil
		}
		lesson, err := bl.toModel(slug, root.Licenses)
		if err != nil {
			return err
		}
		root.Lessons[slug] = lesson
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.eachPayload("courses", func(slug string, payload []byte) error {
		var bc bundleCourse
		if err := json.Unmarshal(payload, &bc); err != nil {
			return fmt.Errorf("course %s: %w", slug, err)
		}
		course, err := bc.toModel(slug, root.Lessons, courseLessons)
		if err != nil {
			return err
		}
		root.Courses[slug] = course
		return nil
	}); err != nil {
		return nil, err
	}

	for _, course := range root.Courses {
		if course.Derives == "" {
			continue
		}
		course.Base = root.Courses["courses/"+course.Derives]
	}

	return root, nil
}

func (r *BundleReader) eachPayload(table string, fn func(slug string, payload []byte) error) error {
	rows, err := r.db.Query(fmt.Sprintf("SELECT slug, payload FROM %s ORDER BY rowid", table))
	if err != nil {
		return fmt.Errorf("reading %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		var payload []byte
		if err := rows.Scan(&slug, &payload); err != nil {
			return fmt.Errorf("reading %s: %w", table, err)
		}
		if err := fn(slug, payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (bl bundleLesson) toModel(slug string, licenses model.LicenseRegistry) (*model.Lesson, error) {
	lesson := &model.Lesson{
		Slug:        slug,
		Title:       bl.Title,
		Pages:       make(map[string]*model.Page),
		Attribution: bl.Attribution,
		Modules:     bl.Modules,
		StaticFiles: bl.Static,
	}
	if bl.License != "" {
		lic, err := licenses.Lookup(bl.License)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", slug, err)
		}
		lesson.License = lic
	}
	if bl.LicenseCode != "" {
		lic, err := licenses.Lookup(bl.LicenseCode)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: code license: %w", slug, err)
		}
		lesson.CodeLicense = lic
	}
	for _, bp := range bl.Pages {
		page := &model.Page{
			Slug:     bp.Slug,
			Subtitle: bp.Subtitle,
			CSS:      bp.CSS,
			Content:  bp.Content,
			Lesson:   lesson,
		}
		if bp.Solution > 0 {
			page.Solution = &model.SolutionRef{Index: bp.Solution}
		}
		lesson.Pages[bp.Slug] = page
		lesson.PageOrder = append(lesson.PageOrder, bp.Slug)
	}
	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (bc bundleCourse) toModel(slug string, lessons, courseLessons map[string]*model.Lesson) (*model.Course, error) {
	course := &model.Course{
		Slug:            slug,
		Title:           bc.Title,
		Subtitle:        bc.Subtitle,
		Description:     bc.Description,
		LongDescription: bc.LongDescription,
		Place:           bc.Place,
		TimeDescription: bc.TimeDescription,
		Canonical:       bc.Canonical,
		Derives:         bc.Derives,
		Vars:            bc.Vars,
		Mentors:         bc.Mentors,
		Lessons:         make(map[string]*model.Lesson),
		Etag:            bc.Etag,
	}
	for _, bs := range bc.Sessions {
		session := &model.Session{
			Slug:        bs.Slug,
			Title:       bs.Title,
			Serial:      bs.Serial,
			Description: bs.Description,
			Pages:       make(map[string]*model.SessionPage),
			Course:      course,
		}
		if bs.Date != "" {
			date, err := model.ParseDate(bs.Date)
			if err != nil {
				return nil, fmt.Errorf("course %s: session %s: %w", slug, bs.Slug, err)
			}
			session.Date = date
		}
		if bs.Start != "" && bs.End != "" {
			start, err := model.ParseTimeOfDay(bs.Start)
			if err != nil {
				return nil, fmt.Errorf("course %s: session %s: %w", slug, bs.Slug, err)
			}
			end, err := model.ParseTimeOfDay(bs.End)
			if err != nil {
				return nil, fmt.Errorf("course %s: session %s: %w", slug, bs.Slug, err)
			}
			session.Time = &model.SessionTime{Start: start, End: end}
		}
		for _, bm := range bs.Materials {
			m := &model.Material{
				Title:       bm.Title,
				Type:        model.MaterialType(bm.Type),
				LessonSlug:  bm.Lesson,
				ExternalURL: bm.URL,
				FromBase:    bm.FromBase,
				Session:     session,
			}
			session.Materials = append(session.Materials, m)
			if bm.Lesson != "" {
				if lesson, ok := courseLessons[slug+"@"+bm.Lesson]; ok {
					course.Lessons[bm.Lesson] = lesson
				} else if lesson, ok := lessons[bm.Lesson]; ok {
					course.Lessons[bm.Lesson] = lesson
				}
			}
		}
		for pageSlug, bp := range bs.Pages {
			session.Pages[pageSlug] = &model.SessionPage{
				Slug:    pageSlug,
				Content: bp.Content,
				Session: session,
			}
		}
		for _, pageSlug := range []string{model.FrontPage, model.BackPage} {
			if _, ok := session.Pages[pageSlug]; !ok {
				session.Pages[pageSlug] = &model.SessionPage{Slug: pageSlug, Session: session}
			}
		}
		course.Sessions = append(course.Sessions, session)
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}
	return course, nil
}
