package loader_test

import (
	"strings"
	"testing"

	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/testutil"
)

const licenseYAML = `title: CC BY-SA 4.0
url: https://creativecommons.org/licenses/by-sa/4.0/
`

// fullTree is a small but complete content directory: one license, two
// lessons, a canonical course and a dated run of it.
func fullTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteContentTree(t, map[string]string{
		"licenses/cc-by-sa-40/info.yml": licenseYAML,

		"lessons/beginners/install/info.yml": `title: Installation
license: cc-by-sa-40
`,
		"lessons/beginners/install/index.md": "# Installation\n\nGet Python.\n",

		"lessons/beginners/loops/info.yml": `title: Loops
license: cc-by-sa-40
attribution:
  - Written by <a href="https://example.org">the authors</a>.
pages:
  - slug: index
  - slug: exercises
    subtitle: Exercises
  - slug: solution-1
    file: solutions.md
    solution: 1
`,
		"lessons/beginners/loops/index.md":     "# Loops\n",
		"lessons/beginners/loops/exercises.md": "Try it yourself.\n",
		"lessons/beginners/loops/solutions.md": "```python\nfor i in range(3): ...\n```\n",

		"courses/python-intro/info.yml": `title: Learn Python
description: A self-study course.
sessions:
  - slug: first-steps
    title: First steps
    materials:
      - lesson: beginners/install
        title: Installation
      - lesson: beginners/loops
        title: Loops
  - slug: extras
    title: Extras
    materials:
      - title: Python docs
        url: https://docs.python.org/
        type: link
`,

		"runs/2025/spring/info.yml": `title: Spring Python
default_time:
  start: "18:00"
  end: "20:00"
sessions:
  - slug: first-steps
    title: First steps
    date: 2025-03-03
    materials:
      - lesson: beginners/install
        title: Installation
  - slug: loops
    title: Loops
    date: 2025-03-10
    time:
      start: "17:00"
      end: "19:00"
    materials:
      - lesson: beginners/loops
        title: Loops
`,
	})
}

func TestLoadRoot(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}

	if len(root.Courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(root.Courses))
	}
	canonical, err := root.Course("courses/python-intro")
	if err != nil {
		t.Fatalf("canonical course: %v", err)
	}
	if !canonical.Canonical {
		t.Error("courses/python-intro should be canonical")
	}
	run, err := root.Course("2025/spring")
	if err != nil {
		t.Fatalf("run course: %v", err)
	}
	if run.Canonical {
		t.Error("2025/spring should not be canonical")
	}

	if len(root.Lessons) != 2 {
		t.Errorf("got %d lessons, want 2", len(root.Lessons))
	}
	if _, ok := root.Lessons["beginners/loops"]; !ok {
		t.Error("lesson beginners/loops not loaded")
	}
	if _, err := root.Licenses.Lookup("cc-by-sa-40"); err != nil {
		t.Errorf("license lookup: %v", err)
	}

	// Courses share lesson pointers with the root.
	if canonical.Lessons["beginners/loops"] != root.Lessons["beginners/loops"] {
		t.Error("course does not share the root's lesson pointer")
	}
}

func TestLoadRootMissingCourse(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	_, err = root.Course("courses/nope")
	if err == nil || !strings.Contains(err.Error(), "courses/nope") {
		t.Errorf("want error naming the missing slug, got %v", err)
	}
}

func TestLoadRootEmptyDir(t *testing.T) {
	var warnings []string
	root, err := loader.LoadRoot(t.TempDir(), loader.Options{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadRoot on empty dir: %v", err)
	}
	if len(root.Courses) != 0 {
		t.Errorf("got %d courses, want 0", len(root.Courses))
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "no lessons") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-lessons warning, got %v", warnings)
	}
}

func TestLoadRootRunYearWarning(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"runs/sometime/course/info.yml": "title: Lost in time\nsessions: []\n",
	})
	var warnings []string
	root, err := loader.LoadRoot(dir, loader.Options{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if len(root.Courses) != 0 {
		t.Errorf("non-year run directory should be skipped, got %d courses", len(root.Courses))
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "sometime") {
		t.Errorf("warning should name the odd directory, got %q", joined)
	}
}

func TestLoadCourseMissingLessonWarns(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"courses/broken/info.yml": `title: Broken links
sessions:
  - slug: only
    title: Only session
    materials:
      - lesson: beginners/vanished
        title: Vanished
`,
	})
	var warnings []string
	root, err := loader.LoadRoot(dir, loader.Options{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	course, err := root.Course("courses/broken")
	if err != nil {
		t.Fatalf("course: %v", err)
	}

	// The material survives; it renders as a bare title.
	materials := course.Sessions[0].Materials
	if len(materials) != 1 || materials[0].Title != "Vanished" {
		t.Fatalf("dangling material should be kept, got %+v", materials)
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "beginners/vanished") {
		t.Errorf("warning should name the missing lesson, got %q", joined)
	}
}

func TestLoadCourseSerials(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	course, _ := root.Course("courses/python-intro")

	// Neither session declares a serial, so both get numbered from 1.
	for i, want := range []string{"1", "2"} {
		if got := course.Sessions[i].Serial; got != want {
			t.Errorf("session %d serial = %q, want %q", i, got, want)
		}
	}
}

func TestLoadCourseExplicitSerialsKept(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"courses/appendix/info.yml": `title: With appendix
sessions:
  - slug: one
    title: One
    serial: "1"
  - slug: extra
    title: Extra
`,
	})
	root, err := loader.LoadRoot(dir, loader.Options{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	course, _ := root.Course("courses/appendix")
	if got := course.Sessions[1].Serial; got != "" {
		t.Errorf("declared serials must be kept as-is, got extra serial %q", got)
	}
}

func TestLoadCourseDateSpan(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	run, _ := root.Course("2025/spring")
	if got := run.StartDate.String(); got != "2025-03-03" {
		t.Errorf("StartDate = %s, want 2025-03-03", got)
	}
	if got := run.EndDate.String(); got != "2025-03-10" {
		t.Errorf("EndDate = %s, want 2025-03-10", got)
	}

	canonical, _ := root.Course("courses/python-intro")
	if !canonical.StartDate.IsZero() || !canonical.EndDate.IsZero() {
		t.Error("undated course should have zero start/end dates")
	}
}

func TestSessionTimeResolution(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	run, _ := root.Course("2025/spring")

	// Dated session without explicit time inherits the course default.
	first := run.Session("first-steps")
	if first.Time == nil {
		t.Fatal("first-steps should inherit the course default time")
	}
	if got := first.Time.Start.String(); got != "18:00" {
		t.Errorf("inherited start = %s, want 18:00", got)
	}

	// An explicit time wins over the default.
	loops := run.Session("loops")
	if loops.Time == nil || loops.Time.Start.String() != "17:00" {
		t.Errorf("explicit session time should win, got %+v", loops.Time)
	}

	// Undated sessions of a course with no default get nothing.
	canonical, _ := root.Course("courses/python-intro")
	if s := canonical.Session("first-steps"); s.Time != nil {
		t.Errorf("undated session should have no time, got %+v", s.Time)
	}
}

func TestSessionCoverPages(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"courses/covers/info.yml": `title: Cover pages
sessions:
  - slug: only
    title: Only session
    pages:
      front:
        content: "<p>Welcome!</p>"
`,
	})
	root, err := loader.LoadRoot(dir, loader.Options{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	course, _ := root.Course("courses/covers")
	session := course.Sessions[0]

	front, ok := session.Pages[model.FrontPage]
	if !ok {
		t.Fatal("front cover missing")
	}
	if !strings.Contains(front.Content, "Welcome!") {
		t.Errorf("declared front cover content lost: %q", front.Content)
	}
	if _, ok := session.Pages[model.BackPage]; !ok {
		t.Error("back cover should be synthesized even when not declared")
	}
}

func TestLoadLessonDefaultsToIndex(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"lessons/basics/hello/info.yml": "title: Hello\n",
		"lessons/basics/hello/index.md": "# Hello\n",
	})
	lesson, err := loader.LoadLesson(dir+"/lessons/basics/hello", "basics/hello", model.LicenseRegistry{})
	if err != nil {
		t.Fatalf("LoadLesson: %v", err)
	}
	if len(lesson.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(lesson.Pages))
	}
	index := lesson.Index()
	if index == nil {
		t.Fatal("no index page")
	}
	if !strings.Contains(index.Content, "# Hello") {
		t.Errorf("index content not read from index.md: %q", index.Content)
	}
}

func TestLoadLessonPageOrder(t *testing.T) {
	root, err := loader.LoadRoot(fullTree(t), loader.Options{})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	lesson := root.Lessons["beginners/loops"]
	want := []string{"index", "exercises", "solution-1"}
	if len(lesson.PageOrder) != len(want) {
		t.Fatalf("PageOrder = %v, want %v", lesson.PageOrder, want)
	}
	for i, slug := range want {
		if lesson.PageOrder[i] != slug {
			t.Errorf("PageOrder[%d] = %q, want %q", i, lesson.PageOrder[i], slug)
		}
	}

	solution := lesson.Page("solution-1")
	if solution == nil || solution.Solution == nil {
		t.Fatal("solution-1 should carry a solution descriptor")
	}
	if solution.Solution.Index != 1 {
		t.Errorf("solution index = %d, want 1", solution.Solution.Index)
	}
	if !strings.Contains(solution.Content, "range(3)") {
		t.Error("solution page should be read from its declared file")
	}
}

func TestLoadLessonUnknownLicense(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"lessons/basics/odd/info.yml": "title: Odd\nlicense: wtfpl\n",
		"lessons/basics/odd/index.md": "# Odd\n",
	})
	_, err := loader.LoadRoot(dir, loader.Options{WarningHandler: func(string) {}})
	if err == nil || !strings.Contains(err.Error(), "wtfpl") {
		t.Errorf("want an error naming the unknown license, got %v", err)
	}
}

func TestLoadLessonMissingPageFile(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"lessons/basics/gone/info.yml": `title: Gone
pages:
  - slug: index
  - slug: missing
`,
		"lessons/basics/gone/index.md": "# Gone\n",
	})
	_, err := loader.LoadRoot(dir, loader.Options{WarningHandler: func(string) {}})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("want an error naming the missing page, got %v", err)
	}
}

func TestLoadCourseInvalid(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"courses/dup/info.yml": `title: Duplicates
sessions:
  - slug: same
    title: A
  - slug: same
    title: B
`,
	})
	_, err := loader.LoadRoot(dir, loader.Options{WarningHandler: func(string) {}})
	if err == nil || !strings.Contains(err.Error(), "same") {
		t.Errorf("want a duplicate-session error, got %v", err)
	}
}

// forkTree extends a shared lesson tree with a run that carries its own
// copy of one lesson and derives from the canonical course.
func forkTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteContentTree(t, map[string]string{
		"licenses/cc-by-sa-40/info.yml": licenseYAML,

		"lessons/beginners/install/info.yml": `title: Installation
license: cc-by-sa-40
`,
		"lessons/beginners/install/index.md": "# Installation\n",

		"lessons/beginners/loops/info.yml": `title: Loops
license: cc-by-sa-40
`,
		"lessons/beginners/loops/index.md": "# Loops\n",

		"courses/python-intro/info.yml": `title: Learn Python
sessions:
  - slug: first-steps
    title: First steps
    materials:
      - lesson: beginners/install
        title: Installation
      - lesson: beginners/loops
        title: Loops
`,

		"runs/2025/fork/info.yml": `title: Forked Python
derives: python-intro
sessions:
  - slug: first-steps
    title: First steps
    materials:
      - lesson: beginners/install
        title: Installation
      - lesson: beginners/loops
        title: Loops
`,
		"runs/2025/fork/lessons/beginners/install/info.yml": `title: Installation (our way)
license: cc-by-sa-40
`,
		"runs/2025/fork/lessons/beginners/install/index.md": "# Installation, fork edition\n",
	})
}

func TestLoadRootForkLessons(t *testing.T) {
	var warnings []string
	root, err := loader.LoadRoot(forkTree(t), loader.Options{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}

	fork, err := root.Course("2025/fork")
	if err != nil {
		t.Fatal(err)
	}
	base, err := root.Course("courses/python-intro")
	if err != nil {
		t.Fatal(err)
	}
	if fork.Base != base {
		t.Error("derives should resolve to the canonical course")
	}

	// The fork's own lesson copy wins over the shared tree.
	install := fork.Lessons["beginners/install"]
	if install == nil || install.Title != "Installation (our way)" {
		t.Fatalf("fork should serve its own install lesson, got %+v", install)
	}
	if install == root.Lessons["beginners/install"] {
		t.Error("fork's install lesson should not be the shared one")
	}

	// Lessons the fork lacks fall back to the shared tree and are
	// flagged for the warning banner.
	if fork.Lessons["beginners/loops"] != root.Lessons["beginners/loops"] {
		t.Error("fork should fall back to the shared loops lesson")
	}
	materials := fork.Sessions[0].Materials
	if materials[0].FromBase {
		t.Error("the fork's own lesson is not a substitution")
	}
	if !materials[1].FromBase {
		t.Error("a lesson served from the shared tree should be flagged")
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "beginners/loops") && strings.Contains(w, "2025/fork") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a substitution warning naming the lesson, got %q", warnings)
	}

	// The canonical course is untouched by the fork's copies.
	if base.Lessons["beginners/install"] != root.Lessons["beginners/install"] {
		t.Error("canonical course should keep the shared install lesson")
	}
	for _, m := range base.Sessions[0].Materials {
		if m.FromBase {
			t.Errorf("canonical course material %q flagged as substituted", m.Title)
		}
	}
}

func TestLoadRootUnknownDerives(t *testing.T) {
	dir := testutil.WriteContentTree(t, map[string]string{
		"lessons/basics/intro/info.yml": "title: Intro\n",
		"lessons/basics/intro/index.md": "# Intro\n",
		"runs/2025/lonely/info.yml": `title: Lonely Run
derives: nonexistent
sessions:
  - slug: only
    title: Only session
    materials:
      - lesson: basics/intro
        title: Intro
`,
	})

	var warnings []string
	root, err := loader.LoadRoot(dir, loader.Options{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}

	course := root.Courses["2025/lonely"]
	if course.Base != nil {
		t.Error("unknown derives should leave the base unresolved")
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "nonexistent") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about the unknown base course, got %q", warnings)
	}
}
