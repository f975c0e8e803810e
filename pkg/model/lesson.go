package model

import "fmt"

// IndexPage is the slug of a lesson's primary page. Every lesson has
// exactly one page with this slug; all other pages are secondary.
const IndexPage = "index"

// ModuleKatex is the module slug that requests math rendering. Its value
// in Lesson.Modules is the pinned library version.
const ModuleKatex = "katex"

// Lesson is a reusable unit of teaching content. It can be rendered
// canonically (outside any course) or embedded in a course via a Material.
type Lesson struct {
	Slug  string
	Title string

	// Pages maps page slug to page. PageOrder preserves the order pages
	// were declared in.
	Pages     map[string]*Page
	PageOrder []string

	// Attribution lines, as sanitized HTML fragments.
	Attribution []string

	License *License

	// CodeLicense applies to code samples when it differs from License.
	// Nil means code samples share the main license.
	CodeLicense *License

	// Modules declares capability flags (module slug to version string),
	// e.g. Modules["katex"] = "0.7.1".
	Modules map[string]string

	// StaticFiles maps a logical filename to its path relative to the
	// lesson directory.
	StaticFiles map[string]string

	// SourceDir is the directory the lesson was loaded from. Empty for
	// lessons restored from a bundle.
	SourceDir string
}

// Index returns the lesson's primary page.
func (l *Lesson) Index() *Page {
	return l.Pages[IndexPage]
}

// Page returns the page with the given slug, or nil.
func (l *Lesson) Page(slug string) *Page {
	return l.Pages[slug]
}

// Validate checks lesson invariants: a title, exactly one index page, and
// consistent solution descriptors.
func (l *Lesson) Validate() error {
	if l.Title == "" {
		return fmt.Errorf("lesson %s has no title", l.Slug)
	}
	if _, ok := l.Pages[IndexPage]; !ok {
		return fmt.Errorf("lesson %s has no %q page", l.Slug, IndexPage)
	}
	for slug, p := range l.Pages {
		if p.Slug != slug {
			return fmt.Errorf("lesson %s: page registered as %q reports slug %q", l.Slug, slug, p.Slug)
		}
		if p.Solution != nil && p.Solution.Index < 1 {
			return fmt.Errorf("lesson %s: page %s: solution index must be 1-based, got %d",
				l.Slug, slug, p.Solution.Index)
		}
		if slug == IndexPage && p.Solution != nil {
			return fmt.Errorf("lesson %s: the index page cannot be a solution", l.Slug)
		}
	}
	return nil
}

// Page is one page of teaching text within a lesson.
type Page struct {
	Slug string

	// Subtitle distinguishes secondary pages; unused for the index page.
	Subtitle string

	// CSS is an optional page-specific style override.
	CSS string

	// Solution is set when this page is itself a worked solution.
	Solution *SolutionRef

	// Content is the page body as markdown; the renderer converts it.
	Content string

	// Lesson is the owning lesson (non-owning back-reference).
	Lesson *Lesson
}

// IsIndex reports whether this is the lesson's primary page.
func (p *Page) IsIndex() bool {
	return p.Slug == IndexPage
}

// Title derives the human-readable page title: the lesson title for the
// index page, "<lesson> – Solution [n]" for solution pages, and
// "<lesson> – <subtitle>" for other secondary pages.
func (p *Page) Title() string {
	if p.Lesson == nil {
		return p.Subtitle
	}
	if p.IsIndex() {
		return p.Lesson.Title
	}
	if p.Solution != nil {
		return fmt.Sprintf("%s – Solution [%d]", p.Lesson.Title, p.Solution.Index)
	}
	if p.Subtitle != "" {
		return fmt.Sprintf("%s – %s", p.Lesson.Title, p.Subtitle)
	}
	return p.Lesson.Title
}

// SolutionRef marks a page as the write-up of a solution.
type SolutionRef struct {
	// Index is the 1-based ordinal of this solution among the lesson's
	// solutions.
	Index int
}
