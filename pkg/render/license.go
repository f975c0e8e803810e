package render

import (
	"html/template"
	"strings"

	"github.com/baloola/naucse/pkg/model"
)

// FormatLicense renders the license footer for a page. The primary
// license link is always present; a second "license of code samples"
// link appears only when a distinct code license is set.
func FormatLicense(primary *model.License, code *model.License) template.HTML {
	if primary == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="license">`)
	sb.WriteString(`Licensed under `)
	writeLicenseLink(&sb, primary)
	if code != nil && code.Slug != primary.Slug {
		sb.WriteString(`. Code samples licensed under `)
		writeLicenseLink(&sb, code)
	}
	sb.WriteString(`.</div>`)
	return template.HTML(sb.String())
}

func writeLicenseLink(sb *strings.Builder, lic *model.License) {
	sb.WriteString(`<a href="`)
	sb.WriteString(template.HTMLEscapeString(lic.URL))
	sb.WriteString(`" class="license-link" rel="license">`)
	sb.WriteString(template.HTMLEscapeString(lic.Title))
	sb.WriteString(`</a>`)
}

// FormatAttribution renders attribution lines, one paragraph per line,
// preserving order. The lines are HTML fragments sanitized at load time.
// An empty list produces no container at all.
func FormatAttribution(lines []string) template.HTML {
	if len(lines) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="attribution">`)
	for _, line := range lines {
		sb.WriteString(`<p>`)
		sb.WriteString(line)
		sb.WriteString(`</p>`)
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}
