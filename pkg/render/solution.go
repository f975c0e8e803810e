package render

import (
	"fmt"
	"html/template"
	"strings"
)

// RevealLabel is the text affordance on a solution cover. It is part of
// the control regardless of icon styling, for accessibility.
const RevealLabel = "Show solution"

// SolutionBlock renders one covered solution region.
//
// Each block is an independent two-state machine: covered (initial) and
// opened (terminal). The embedded script performs the one-way transition;
// the content becomes present immediately on open, with the slide-and-fade
// motion being purely cosmetic. For print output the cover is not emitted
// at all; the solution content is simply in the page.
//
// The ordinal is the solution's 1-based index among the page's solution
// blocks; it only scopes element ids, never state, so opening one block
// cannot affect another.
func SolutionBlock(ordinal int, body template.HTML, medium Medium) template.HTML {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="solution" id="solution-%d">`, ordinal))
	if medium == MediumPrint {
		sb.WriteString(`<div class="solution-content">`)
		sb.WriteString(string(body))
		sb.WriteString(`</div></div>`)
		return template.HTML(sb.String())
	}
	sb.WriteString(`<div class="solution-cover">`)
	sb.WriteString(fmt.Sprintf(
		`<button type="button" class="solution-reveal" aria-expanded="false" aria-controls="solution-content-%d">%s</button>`,
		ordinal, RevealLabel))
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(`<div class="solution-content" id="solution-content-%d" hidden>`, ordinal))
	sb.WriteString(string(body))
	sb.WriteString(`</div></div>`)
	return template.HTML(sb.String())
}
