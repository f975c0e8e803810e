package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/baloola/naucse/pkg/model"
)

// ErrUnknownKatexVersion is returned when a lesson pins a KaTeX version
// the renderer has no integrity hashes for. Like admonition kinds, this
// is a content configuration error and is reported at build time.
var ErrUnknownKatexVersion = errors.New("unknown katex version")

// katexRelease pins the subresource integrity hashes of one KaTeX
// release. Only releases listed here may be referenced by lessons.
type katexRelease struct {
	cssIntegrity        string
	jsIntegrity         string
	autoRenderIntegrity string
}

const katexCDN = "https://cdn.jsdelivr.net/npm/katex@%s/dist/%s"

var katexReleases = map[string]katexRelease{
	"0.7.1": {
		cssIntegrity:        "sha384-wITovz90syo1dJWVh32uuETPVEtGigN07tkttEqPv+uR2SE/mbQcG7ATL28aI9H0",
		jsIntegrity:         "sha384-/y1Nn9+QQAipbNQWU65krzJralCnuOasHncUFXGkdwntGeSvQicrYkiUBwsgUqc1",
		autoRenderIntegrity: "sha384-dq1/gEHSxPZQ7DdrM82ID4YVol9BYyU7GbWlIwnwyPzotpoc57wDw/guX8EaYGPx",
	},
	"0.16.9": {
		cssIntegrity:        "sha384-n8MVd4RsNIU0tAv4ct0nTaAbDJwPJzDEaqSD1odI+WdtXRGWt2kTvGFasHpSy3SV",
		jsIntegrity:         "sha384-XjKyOOlGwcjNTAIQHIpgOno0Hl1YQqzUOEleOLALmuqehneUG+vnGctmUb0ZY0l8",
		autoRenderIntegrity: "sha384-+VBxd3r6XgURycqtZ117nYw44OOcIax56Z4dCRWbxyPt0Koah1uHoK0o4+/RRE05",
	},
}

// KatexSupported reports whether the given version can be emitted.
func KatexSupported(version string) bool {
	_, ok := katexReleases[version]
	return ok
}

// KatexHead renders the head fragment for a lesson that declares the
// katex module: exactly one stylesheet/script pair pinned to the declared
// version, plus one auto-render invocation that scans the whole body for
// $...$ (inline) and $$...$$ (display) delimiters.
//
// Lessons without the module produce an empty fragment.
func KatexHead(lesson *model.Lesson) (template.HTML, error) {
	if lesson == nil {
		return "", nil
	}
	version, ok := lesson.Modules[model.ModuleKatex]
	if !ok {
		return "", nil
	}
	release, ok := katexReleases[version]
	if !ok {
		return "", fmt.Errorf("%w: %q (lesson %s)", ErrUnknownKatexVersion, version, lesson.Slug)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<link rel="stylesheet" href="`+katexCDN+`" integrity="%s" crossorigin="anonymous">`,
		version, "katex.min.css", release.cssIntegrity)
	sb.WriteString("\n")
	fmt.Fprintf(&sb,
		`<script defer src="`+katexCDN+`" integrity="%s" crossorigin="anonymous"></script>`,
		version, "katex.min.js", release.jsIntegrity)
	sb.WriteString("\n")
	fmt.Fprintf(&sb,
		`<script defer src="`+katexCDN+`" integrity="%s" crossorigin="anonymous"></script>`,
		version, "contrib/auto-render.min.js", release.autoRenderIntegrity)
	sb.WriteString("\n")
	sb.WriteString(`<script>document.addEventListener("DOMContentLoaded", function() {
  renderMathInElement(document.body, {delimiters: [
    {left: "$$", right: "$$", display: true},
    {left: "$", right: "$", display: false}
  ]});
});</script>`)
	return template.HTML(sb.String()), nil
}
