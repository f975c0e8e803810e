package model

import "fmt"

// License is an approved content or code license. Licenses are loaded into
// a registry up front; lessons may only reference registered slugs.
type License struct {
	Slug  string
	Title string
	URL   string
}

// Validate checks that the license is complete.
func (l *License) Validate() error {
	if l.Slug == "" {
		return fmt.Errorf("license has no slug")
	}
	if l.Title == "" {
		return fmt.Errorf("license %s has no title", l.Slug)
	}
	if l.URL == "" {
		return fmt.Errorf("license %s has no URL", l.Slug)
	}
	return nil
}

// LicenseRegistry maps license slugs to registered licenses.
type LicenseRegistry map[string]*License

// Lookup resolves a license slug, failing on unregistered slugs.
func (r LicenseRegistry) Lookup(slug string) (*License, error) {
	lic, ok := r[slug]
	if !ok {
		return nil, fmt.Errorf("license %q is not registered", slug)
	}
	return lic, nil
}
