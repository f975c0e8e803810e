package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// AdmonitionKind identifies one of the fixed callout kinds. The set is
// closed: content using any other kind is a configuration error.
type AdmonitionKind string

const (
	AdmonitionNote          AdmonitionKind = "note"
	AdmonitionWarning       AdmonitionKind = "warning"
	AdmonitionExtraActivity AdmonitionKind = "extra-activity"
	AdmonitionStyleNote     AdmonitionKind = "style-note"
)

// ErrUnknownAdmonition is returned for kinds outside the closed set.
var ErrUnknownAdmonition = errors.New("unknown admonition kind")

// admonitionStyle fixes the decoration of one kind: the glyph shown in
// the corner, the color class, and whether embedded <em> renders italic
// (admonition bodies default to non-italic emphasis).
type admonitionStyle struct {
	glyph    string
	class    string
	italicEm bool
}

var admonitionStyles = map[AdmonitionKind]admonitionStyle{
	AdmonitionNote:          {glyph: "ℹ", class: "admonition-note"},
	AdmonitionWarning:       {glyph: "⚠", class: "admonition-warning", italicEm: true},
	AdmonitionExtraActivity: {glyph: "★", class: "admonition-extra-activity"},
	AdmonitionStyleNote:     {glyph: "✎", class: "admonition-style-note"},
}

// KnownAdmonitionKinds returns the closed set of accepted kinds.
func KnownAdmonitionKinds() []AdmonitionKind {
	return []AdmonitionKind{
		AdmonitionNote,
		AdmonitionWarning,
		AdmonitionExtraActivity,
		AdmonitionStyleNote,
	}
}

// IsKnownAdmonitionKind reports whether kind is in the closed set.
func IsKnownAdmonitionKind(kind AdmonitionKind) bool {
	_, ok := admonitionStyles[kind]
	return ok
}

// admonitionOpen renders the wrapper markup up to (and including) the
// opening of the body div. An empty title omits the heading row.
func admonitionOpen(kind AdmonitionKind, title string) (string, error) {
	style, ok := admonitionStyles[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAdmonition, kind)
	}

	var sb strings.Builder
	classes := "admonition " + style.class
	if style.italicEm {
		classes += " admonition-em-italic"
	}
	sb.WriteString(`<div class="` + classes + `" role="note">`)
	sb.WriteString(`<span class="admonition-glyph" aria-hidden="true">` + style.glyph + `</span>`)
	if title != "" {
		sb.WriteString(`<p class="admonition-title">`)
		sb.WriteString(template.HTMLEscapeString(title))
		sb.WriteString(`</p>`)
	}
	sb.WriteString(`<div class="admonition-body">`)
	return sb.String(), nil
}

const admonitionClose = `</div></div>`

// FormatAdmonition renders a styled callout block. The body must already
// be trusted HTML (it comes out of the content pipeline).
func (r *Renderer) FormatAdmonition(kind AdmonitionKind, title string, body template.HTML) (template.HTML, error) {
	open, err := admonitionOpen(kind, title)
	if err != nil {
		return "", err
	}
	return template.HTML(open + string(body) + admonitionClose), nil
}
