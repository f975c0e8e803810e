package render

import (
	"embed"
	"html/template"
)

// Embedded page templates and static assets.
//
//go:embed templates assets
var embeddedFS embed.FS

// AssetNames lists the embedded static assets the export ships alongside
// rendered pages.
var AssetNames = []string{
	"naucse.css",
	"solution.js",
}

// Asset returns the contents of one embedded static asset.
func Asset(name string) ([]byte, error) {
	return embeddedFS.ReadFile("assets/" + name)
}

var pageTemplates = template.Must(template.ParseFS(embeddedFS,
	"templates/page.html.tmpl",
	"templates/session.html.tmpl",
	"templates/cover.html.tmpl",
	"templates/course.html.tmpl",
))
