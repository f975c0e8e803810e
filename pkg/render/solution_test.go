package render_test

import (
	"strings"
	"testing"

	"github.com/baloola/naucse/pkg/render"
)

func TestSolutionBlockScreen(t *testing.T) {
	html := string(render.SolutionBlock(1, "<p>answer</p>", render.MediumScreen))

	if !strings.Contains(html, `class="solution-cover"`) {
		t.Error("screen medium must start covered")
	}
	if !strings.Contains(html, render.RevealLabel) {
		t.Error("cover control needs its text label")
	}
	if !strings.Contains(html, `aria-expanded="false"`) {
		t.Error("cover control must announce collapsed state")
	}
	if !strings.Contains(html, `aria-controls="solution-content-1"`) {
		t.Error("cover control must reference the content region")
	}
	if !strings.Contains(html, `id="solution-content-1" hidden`) {
		t.Error("content must be present but hidden")
	}
	if !strings.Contains(html, "<p>answer</p>") {
		t.Error("content must be in the markup even while covered")
	}
}

func TestSolutionBlockPrintHasNoCover(t *testing.T) {
	html := string(render.SolutionBlock(1, "<p>answer</p>", render.MediumPrint))

	if strings.Contains(html, "solution-cover") {
		t.Error("print medium must not emit the cover element")
	}
	if strings.Contains(html, "<button") {
		t.Error("print medium must not emit the reveal control")
	}
	if strings.Contains(html, "hidden") {
		t.Error("print content must not be hidden")
	}
	if !strings.Contains(html, "<p>answer</p>") {
		t.Error("print medium still renders the content")
	}
}

func TestSolutionBlocksAreIndependent(t *testing.T) {
	first := string(render.SolutionBlock(1, "one", render.MediumScreen))
	second := string(render.SolutionBlock(2, "two", render.MediumScreen))

	if !strings.Contains(first, `id="solution-1"`) || !strings.Contains(second, `id="solution-2"`) {
		t.Error("blocks must carry distinct ids")
	}
	if !strings.Contains(second, `aria-controls="solution-content-2"`) {
		t.Error("each cover must control its own content region")
	}
}

func TestSolutionRevealScriptIsOneWay(t *testing.T) {
	js, err := render.Asset("solution.js")
	if err != nil {
		t.Fatal(err)
	}
	script := string(js)

	// The reveal control disables itself: covered → opened is terminal.
	if !strings.Contains(script, "disabled") {
		t.Error("reveal script must disable the control after opening")
	}
	if !strings.Contains(script, "removeAttribute") || !strings.Contains(script, "hidden") {
		t.Error("reveal script must unhide the content region")
	}
}

func TestSolutionPrintCSS(t *testing.T) {
	css, err := render.Asset("naucse.css")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(css), "@media print") {
		t.Error("stylesheet must remove covers under print media")
	}
}
