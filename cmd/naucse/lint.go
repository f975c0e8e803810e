package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/baloola/naucse/internal/datasource"
	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/render"
	"github.com/baloola/naucse/pkg/sequence"
)

var (
	lintErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	lintWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lintOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lintSlugStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// admonitionClassRe finds hand-written admonition containers in page
// markdown so their kinds can be checked against the known set.
var admonitionClassRe = regexp.MustCompile(`class="admonition admonition-([a-z-]+)`)

type lintReport struct {
	errors   []string
	warnings []string
}

func (r *lintReport) errorf(slug, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.errors = append(r.errors, fmt.Sprintf("%s %s", lintSlugStyle.Render(slug), msg))
}

func (r *lintReport) warnf(slug, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, fmt.Sprintf("%s %s", lintSlugStyle.Render(slug), msg))
}

// runLint loads the content tree and reports everything wrong with it.
// Returns the process exit code.
func runLint(contentDir string) int {
	report := &lintReport{}

	root, err := datasource.Load(contentDir, loader.Options{
		WarningHandler: func(msg string) {
			report.warnings = append(report.warnings, msg)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", lintErrorStyle.Render("error:"), err)
		return 1
	}

	lintLessons(root, report)
	lintCourses(root, report)

	sort.Strings(report.errors)
	sort.Strings(report.warnings)
	for _, msg := range report.errors {
		fmt.Printf("%s %s\n", lintErrorStyle.Render("error:"), msg)
	}
	for _, msg := range report.warnings {
		fmt.Printf("%s %s\n", lintWarnStyle.Render("warning:"), msg)
	}

	if len(report.errors) > 0 {
		fmt.Printf("\n%d errors, %d warnings\n", len(report.errors), len(report.warnings))
		return 1
	}
	fmt.Printf("%s %d courses, %d lessons, %d warnings\n",
		lintOKStyle.Render("Content OK:"), len(root.Courses), len(root.Lessons), len(report.warnings))
	return 0
}

func lintLessons(root *loader.Root, report *lintReport) {
	for slug, lesson := range root.Lessons {
		for kind, version := range lesson.Modules {
			if kind != "katex" {
				report.warnf(slug, "unknown module %q", kind)
				continue
			}
			if !render.KatexSupported(version) {
				report.errorf(slug, "unsupported katex version %q", version)
			}
		}
		for pageSlug, page := range lesson.Pages {
			for _, m := range admonitionClassRe.FindAllStringSubmatch(page.Content, -1) {
				kind := render.AdmonitionKind(m[1])
				if !render.IsKnownAdmonitionKind(kind) {
					report.errorf(slug, "page %s: unknown admonition kind %q (known: %v)",
						pageSlug, kind, render.KnownAdmonitionKinds())
				}
			}
		}
		if lesson.License == nil {
			report.warnf(slug, "no license")
		}
	}
}

func lintCourses(root *loader.Root, report *lintReport) {
	for slug, course := range root.Courses {
		ix := sequence.Build(course)
		for _, m := range ix.Materials() {
			if n := ix.NextOf(m); n != nil && ix.PrevOf(n) != m {
				report.errorf(slug, "material ordering asymmetric at %q", m.Title)
			}
		}
		for _, session := range course.Sessions {
			if len(session.Materials) == 0 {
				report.warnf(slug, "session %s has no materials", session.Slug)
			}
		}
	}
}
