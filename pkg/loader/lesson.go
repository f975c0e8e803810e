package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/baloola/naucse/pkg/model"
)

// lessonInfo mirrors a lesson info.yml.
type lessonInfo struct {
	Title       string            `yaml:"title"`
	Attribution []string          `yaml:"attribution,omitempty"`
	License     string            `yaml:"license"`
	LicenseCode string            `yaml:"license_code,omitempty"`
	Modules     map[string]string `yaml:"modules,omitempty"`
	Static      map[string]string `yaml:"static,omitempty"`
	Pages       []pageInfo        `yaml:"pages,omitempty"`
}

type pageInfo struct {
	Slug     string `yaml:"slug"`
	File     string `yaml:"file,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty"`
	CSS      string `yaml:"css,omitempty"`

	// Solution is the 1-based solution ordinal; zero means the page is
	// not a solution write-up.
	Solution int `yaml:"solution,omitempty"`
}

// loadLessons walks lessons/<group>/<name> directories. Lesson slugs are
// "<group>/<name>".
func loadLessons(dir string, licenses model.LicenseRegistry, opts Options) (map[string]*model.Lesson, error) {
	lessons := make(map[string]*model.Lesson)

	groups, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		opts.warn("no lessons at %s", dir)
		return lessons, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lessons directory: %w", err)
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(dir, group.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading lesson group %s: %w", group.Name(), err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			slug := group.Name() + "/" + e.Name()
			lesson, err := LoadLesson(filepath.Join(dir, group.Name(), e.Name()), slug, licenses)
			if err != nil {
				return nil, err
			}
			lessons[slug] = lesson
		}
	}
	return lessons, nil
}

// LoadLesson loads one lesson directory: its info.yml plus the markdown
// file of every declared page. A lesson that declares no pages gets a
// single index page read from index.md.
func LoadLesson(dir, slug string, licenses model.LicenseRegistry) (*model.Lesson, error) {
	raw, err := os.ReadFile(filepath.Join(dir, InfoFileName))
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", slug, err)
	}
	var info lessonInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("lesson %s: parsing %s: %w", slug, InfoFileName, err)
	}

	lesson := &model.Lesson{
		Slug:        slug,
		Title:       info.Title,
		Pages:       make(map[string]*model.Page),
		Attribution: info.Attribution,
		Modules:     info.Modules,
		StaticFiles: info.Static,
		SourceDir:   dir,
	}

	if info.License != "" {
		lic, err := licenses.Lookup(info.License)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", slug, err)
		}
		lesson.License = lic
	}
	if info.LicenseCode != "" {
		lic, err := licenses.Lookup(info.LicenseCode)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: code license: %w", slug, err)
		}
		lesson.CodeLicense = lic
	}

	pages := info.Pages
	if len(pages) == 0 {
		pages = []pageInfo{{Slug: model.IndexPage}}
	}
	for _, pi := range pages {
		file := pi.File
		if file == "" {
			file = pi.Slug + ".md"
		}
		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("lesson %s: page %s: %w", slug, pi.Slug, err)
		}
		page := &model.Page{
			Slug:     pi.Slug,
			Subtitle: pi.Subtitle,
			CSS:      pi.CSS,
			Content:  string(content),
			Lesson:   lesson,
		}
		if pi.Solution > 0 {
			page.Solution = &model.SolutionRef{Index: pi.Solution}
		}
		lesson.Pages[pi.Slug] = page
		lesson.PageOrder = append(lesson.PageOrder, pi.Slug)
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	return lesson, nil
}

// licenseInfo mirrors a license info.yml.
type licenseInfo struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// loadLicenses reads licenses/<slug>/info.yml files into a registry.
func loadLicenses(dir string) (model.LicenseRegistry, error) {
	registry := make(model.LicenseRegistry)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading licenses directory: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name(), InfoFileName))
		if err != nil {
			return nil, fmt.Errorf("license %s: %w", e.Name(), err)
		}
		var info licenseInfo
		if err := yaml.Unmarshal(raw, &info); err != nil {
			return nil, fmt.Errorf("license %s: parsing %s: %w", e.Name(), InfoFileName, err)
		}
		lic := &model.License{Slug: e.Name(), Title: info.Title, URL: info.URL}
		if err := lic.Validate(); err != nil {
			return nil, err
		}
		registry[e.Name()] = lic
	}
	return registry, nil
}
