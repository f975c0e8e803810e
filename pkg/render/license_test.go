package render_test

import (
	"strings"
	"testing"

	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/render"
)

var (
	ccBySa = &model.License{
		Slug:  "cc-by-sa-4.0",
		Title: "CC BY-SA 4.0",
		URL:   "https://creativecommons.org/licenses/by-sa/4.0/",
	}
	mit = &model.License{
		Slug:  "mit",
		Title: "MIT",
		URL:   "https://opensource.org/licenses/MIT",
	}
)

func TestFormatLicenseSingle(t *testing.T) {
	html := string(render.FormatLicense(ccBySa, nil))

	if got := strings.Count(html, "<a "); got != 1 {
		t.Errorf("expected exactly 1 link, got %d in %s", got, html)
	}
	if !strings.Contains(html, `rel="license"`) {
		t.Error("license link needs rel=license")
	}
	if !strings.Contains(html, "CC BY-SA 4.0") {
		t.Error("license title missing")
	}
}

func TestFormatLicenseWithCodeLicense(t *testing.T) {
	html := string(render.FormatLicense(ccBySa, mit))

	if got := strings.Count(html, "<a "); got != 2 {
		t.Errorf("expected 2 links, got %d in %s", got, html)
	}
	if !strings.Contains(html, "Code samples") {
		t.Error("second link must be labeled as the code license")
	}
}

func TestFormatLicenseSameCodeLicenseCollapses(t *testing.T) {
	html := string(render.FormatLicense(ccBySa, ccBySa))

	if got := strings.Count(html, "<a "); got != 1 {
		t.Errorf("identical code license must collapse to 1 link, got %d", got)
	}
}

func TestFormatLicenseNil(t *testing.T) {
	if got := render.FormatLicense(nil, mit); got != "" {
		t.Errorf("no primary license should render nothing, got %s", got)
	}
}

func TestFormatAttribution(t *testing.T) {
	html := string(render.FormatAttribution([]string{
		`Written by <a href="https://example.com">Someone</a>`,
		"Translated by Someone Else",
	}))

	if got := strings.Count(html, "<p>"); got != 2 {
		t.Errorf("expected one paragraph per line, got %d", got)
	}
	first := strings.Index(html, "Written by")
	second := strings.Index(html, "Translated by")
	if first < 0 || second < 0 || first > second {
		t.Error("attribution lines must keep their order")
	}
	if !strings.Contains(html, `class="attribution"`) {
		t.Error("attribution container missing")
	}
}

func TestFormatAttributionEmpty(t *testing.T) {
	if got := render.FormatAttribution(nil); got != "" {
		t.Errorf("empty attribution must produce no container, got %s", got)
	}
	if got := render.FormatAttribution([]string{}); got != "" {
		t.Errorf("empty attribution must produce no container, got %s", got)
	}
}
