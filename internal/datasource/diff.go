package datasource

import (
	"fmt"
	"sort"

	"github.com/baloola/naucse/pkg/loader"
)

// RootDiff represents differences between two loaded content roots,
// typically a content directory and the bundle built from it.
type RootDiff struct {
	// SourceA is the path of the first source
	SourceA string
	// SourceB is the path of the second source
	SourceB string
	// MissingInA contains slugs present in B but not in A
	MissingInA []string
	// MissingInB contains slugs present in A but not in B
	MissingInB []string
	// TitleMismatch contains entities whose titles differ between sources
	TitleMismatch []TitleDifference
	// CoursesA and CoursesB are the course counts of each source
	CoursesA int
	CoursesB int
}

// TitleDifference records a title mismatch for one course or lesson.
type TitleDifference struct {
	Slug   string `json:"slug"`
	TitleA string `json:"title_a"`
	TitleB string `json:"title_b"`
}

// HasInconsistencies returns true if the sources differ.
func (d RootDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.TitleMismatch) > 0
}

// Summary returns a human-readable summary of the differences.
func (d RootDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d courses each)", d.CoursesA)
	}

	summary := fmt.Sprintf("Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)

	if d.CoursesA != d.CoursesB {
		summary += fmt.Sprintf("  - Course count mismatch: %d vs %d\n", d.CoursesA, d.CoursesB)
	}

	if len(d.MissingInA) > 0 {
		summary += fmt.Sprintf("  - %d entries in %s but not %s\n", len(d.MissingInA), d.SourceB, d.SourceA)
		if len(d.MissingInA) <= 5 {
			for _, slug := range d.MissingInA {
				summary += fmt.Sprintf("    - %s\n", slug)
			}
		}
	}

	if len(d.MissingInB) > 0 {
		summary += fmt.Sprintf("  - %d entries in %s but not %s\n", len(d.MissingInB), d.SourceA, d.SourceB)
		if len(d.MissingInB) <= 5 {
			for _, slug := range d.MissingInB {
				summary += fmt.Sprintf("    - %s\n", slug)
			}
		}
	}

	if len(d.TitleMismatch) > 0 {
		summary += fmt.Sprintf("  - %d entries with different titles\n", len(d.TitleMismatch))
		if len(d.TitleMismatch) <= 5 {
			for _, m := range d.TitleMismatch {
				summary += fmt.Sprintf("    - %s: %q vs %q\n", m.Slug, m.TitleA, m.TitleB)
			}
		}
	}

	return summary
}

// DiffRoots compares two loaded roots by course and lesson slug.
func DiffRoots(rootA, rootB *loader.Root, sourceA, sourceB string) RootDiff {
	diff := RootDiff{
		SourceA:  sourceA,
		SourceB:  sourceB,
		CoursesA: len(rootA.Courses),
		CoursesB: len(rootB.Courses),
	}

	for slug, courseA := range rootA.Courses {
		courseB, ok := rootB.Courses[slug]
		if !ok {
			diff.MissingInB = append(diff.MissingInB, "course "+slug)
			continue
		}
		if courseA.Title != courseB.Title {
			diff.TitleMismatch = append(diff.TitleMismatch, TitleDifference{
				Slug: "course " + slug, TitleA: courseA.Title, TitleB: courseB.Title,
			})
		}
	}
	for slug := range rootB.Courses {
		if _, ok := rootA.Courses[slug]; !ok {
			diff.MissingInA = append(diff.MissingInA, "course "+slug)
		}
	}

	for slug, lessonA := range rootA.Lessons {
		lessonB, ok := rootB.Lessons[slug]
		if !ok {
			diff.MissingInB = append(diff.MissingInB, "lesson "+slug)
			continue
		}
		if lessonA.Title != lessonB.Title {
			diff.TitleMismatch = append(diff.TitleMismatch, TitleDifference{
				Slug: "lesson " + slug, TitleA: lessonA.Title, TitleB: lessonB.Title,
			})
		}
	}
	for slug := range rootB.Lessons {
		if _, ok := rootA.Lessons[slug]; !ok {
			diff.MissingInA = append(diff.MissingInA, "lesson "+slug)
		}
	}

	sort.Strings(diff.MissingInA)
	sort.Strings(diff.MissingInB)
	sort.Slice(diff.TitleMismatch, func(i, j int) bool {
		return diff.TitleMismatch[i].Slug < diff.TitleMismatch[j].Slug
	})

	return diff
}

// CompareSources loads and compares two content sources.
func CompareSources(pathA, pathB string, opts loader.Options) (*RootDiff, error) {
	rootA, err := Load(pathA, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", pathA, err)
	}

	rootB, err := Load(pathB, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", pathB, err)
	}

	diff := DiffRoots(rootA, rootB, pathA, pathB)
	return &diff, nil
}
