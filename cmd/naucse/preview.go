package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/baloola/naucse/internal/datasource"
	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/model"
)

// runPreview renders one lesson page's markdown to the terminal.
// The ref is "group/name" for the index page or "group/name:page".
func runPreview(contentDir, ref string) error {
	lessonSlug, pageSlug := ref, model.IndexPage
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		lessonSlug, pageSlug = ref[:i], ref[i+1:]
	}

	root, err := datasource.Load(contentDir, loader.Options{})
	if err != nil {
		return err
	}

	lesson, ok := root.Lessons[lessonSlug]
	if !ok {
		return fmt.Errorf("no lesson %q", lessonSlug)
	}
	page := lesson.Page(pageSlug)
	if page == nil {
		return fmt.Errorf("lesson %s has no page %q (has: %s)",
			lessonSlug, pageSlug, strings.Join(lesson.PageOrder, ", "))
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}

	out, err := r.Render("# " + page.Title() + "\n\n" + page.Content)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", ref, err)
	}
	fmt.Print(out)
	return nil
}
