package datasource

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/model"
)

// WriteBundle serializes a loaded root into a SQLite content bundle at
// path, replacing any existing file.
func WriteBundle(root *loader.Root, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing bundle: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return fmt.Errorf("creating bundle: %w", err)
	}
	defer db.Close()

	for _, table := range []string{"licenses", "lessons", "courses"} {
		if _, err := db.Exec(fmt.Sprintf(
			"CREATE TABLE %s (slug TEXT PRIMARY KEY, payload BLOB NOT NULL)", table)); err != nil {
			return fmt.Errorf("creating bundle schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	defer tx.Rollback()

	for slug, lic := range root.Licenses {
		if err := insertPayload(tx, "licenses", slug, bundleLicense{
			Title: lic.Title,
			URL:   lic.URL,
		}); err != nil {
			return err
		}
	}
	for slug, lesson := range root.Lessons {
		if err := insertPayload(tx, "lessons", slug, lessonToBundle(lesson)); err != nil {
			return err
		}
	}
	for slug, course := range root.Courses {
		if err := insertPayload(tx, "courses", slug, courseToBundle(course)); err != nil {
			return err
		}
		// Fork-local lesson variants shadow a shared slug for one course
		// only; they get course-qualified keys so both copies survive.
		for lessonSlug, lesson := range course.Lessons {
			if root.Lessons[lessonSlug] == lesson {
				continue
			}
			if err := insertPayload(tx, "lessons", slug+"@"+lessonSlug, lessonToBundle(lesson)); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}

func insertPayload(tx *sql.Tx, table, slug string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", table, slug, err)
	}
	if _, err := tx.Exec(fmt.Sprintf(
		"INSERT INTO %s (slug, payload) VALUES (?, ?)", table), slug, raw); err != nil {
		return fmt.Errorf("writing %s %s: %w", table, slug, err)
	}
	return nil
}

func lessonToBundle(lesson *model.Lesson) bundleLesson {
	bl := bundleLesson{
		Title:       lesson.Title,
		Attribution: lesson.Attribution,
		Modules:     lesson.Modules,
		Static:      lesson.StaticFiles,
	}
	if lesson.License != nil {
		bl.License = lesson.License.Slug
	}
	if lesson.CodeLicense != nil {
		bl.LicenseCode = lesson.CodeLicense.Slug
	}
	for _, slug := range lesson.PageOrder {
		page := lesson.Pages[slug]
		bp := bundlePage{
			Slug:     page.Slug,
			Subtitle: page.Subtitle,
			CSS:      page.CSS,
			Content:  page.Content,
		}
		if page.Solution != nil {
			bp.Solution = page.Solution.Index
		}
		bl.Pages = append(bl.Pages, bp)
	}
	return bl
}

func courseToBundle(course *model.Course) bundleCourse {
	bc := bundleCourse{
		Title:           course.Title,
		Subtitle:        course.Subtitle,
		Description:     course.Description,
		LongDescription: course.LongDescription,
		Place:           course.Place,
		TimeDescription: course.TimeDescription,
		Canonical:       course.Canonical,
		Derives:         course.Derives,
		Vars:            course.Vars,
		Mentors:         course.Mentors,
		Etag:            course.Etag,
	}
	for _, session := range course.Sessions {
		bs := bundleSession{
			Slug:        session.Slug,
			Title:       session.Title,
			Serial:      session.Serial,
			Description: session.Description,
		}
		if !session.Date.IsZero() {
			bs.Date = session.Date.String()
		}
		if session.Time != nil {
			bs.Start = session.Time.Start.String()
			bs.End = session.Time.End.String()
		}
		for _, m := range session.Materials {
			bs.Materials = append(bs.Materials, bundleMaterial{
				Title:    m.Title,
				Type:     string(m.Type),
				Lesson:   m.LessonSlug,
				URL:      m.ExternalURL,
				FromBase: m.FromBase,
			})
		}
		for pageSlug, page := range session.Pages {
			if page.Content == "" {
				continue
			}
			if bs.Pages == nil {
				bs.Pages = make(map[string]bundleSessionPage)
			}
			bs.Pages[pageSlug] = bundleSessionPage{Content: page.Content}
		}
		bc.Sessions = append(bc.Sessions, bs)
	}
	return bc
}
