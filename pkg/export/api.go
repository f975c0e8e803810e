package export

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/baloola/naucse/pkg/model"
)

// JSON dump of course metadata, one file per course under v0/. Forks of
// the site read these to display courses they don't host themselves.

type apiCourse struct {
	Slug            string       `json:"slug"`
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle,omitempty"`
	Description     string       `json:"description,omitempty"`
	Place           string       `json:"place,omitempty"`
	TimeDescription string       `json:"time_description,omitempty"`
	StartDate       string       `json:"start_date,omitempty"`
	EndDate         string       `json:"end_date,omitempty"`
	Canonical       bool         `json:"canonical,omitempty"`
	Derives         string       `json:"derives,omitempty"`
	Sessions        []apiSession `json:"sessions"`
	URL             string       `json:"url"`
}

type apiSession struct {
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Serial    string        `json:"serial,omitempty"`
	Date      string        `json:"date,omitempty"`
	Materials []apiMaterial `json:"materials"`
	URL       string        `json:"url"`
}

type apiMaterial struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url,omitempty"`
}

func (e *Exporter) writeCourseJSON(course *model.Course) error {
	urls := &siteURLs{base: e.baseURL, course: course}

	ac := apiCourse{
		Slug:            course.Slug,
		Title:           course.Title,
		Subtitle:        course.Subtitle,
		Description:     course.Description,
		Place:           course.Place,
		TimeDescription: course.TimeDescription,
		Canonical:       course.Canonical,
		Derives:         course.Derives,
		URL:             urls.CourseURL(course),
	}
	if !course.StartDate.IsZero() {
		ac.StartDate = course.StartDate.String()
	}
	if !course.EndDate.IsZero() {
		ac.EndDate = course.EndDate.String()
	}

	for _, s := range course.Sessions {
		as := apiSession{
			Slug:   s.Slug,
			Title:  s.Title,
			Serial: s.Serial,
			URL:    urls.SessionURL(s),
		}
		if !s.Date.IsZero() {
			as.Date = s.Date.String()
		}
		for _, m := range s.Materials {
			am := apiMaterial{Title: m.Title, Type: string(m.Type)}
			if lesson := m.Lesson(); lesson != nil {
				am.URL = urls.LessonURL(lesson, model.IndexPage)
			} else if m.ExternalURL != "" {
				am.URL = m.ExternalURL
			}
			as.Materials = append(as.Materials, am)
		}
		ac.Sessions = append(ac.Sessions, as)
	}

	data, err := json.MarshalIndent(ac, "", "  ")
	if err != nil {
		return err
	}

	dst := filepath.Join(e.out, "v0", filepath.FromSlash(courseBase(course))+".json")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
