// Package sequence computes the canonical linear ordering of a course's
// materials and the ancestor chain of any page.
//
// The ordering is flattened across sessions: materials are ordered first
// by session display order, then by their position within the session's
// material list. Only materials that reference a lesson participate;
// external links and unlinked headings carry no position in the sequence.
//
// An Index is built once per loaded course and is immutable afterwards,
// so it is safe to share read-only across concurrent renders. Use Cache
// to memoize the index per course content.
package sequence

import (
	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
)

// Index is the precomputed flattened material ordering of one course.
type Index struct {
	course  *model.Course
	ordered []*model.Material
	prev    map[*model.Material]*model.Material
	next    map[*model.Material]*model.Material

	// byLesson maps a lesson slug to the material embedding it. A lesson
	// referenced by several materials keeps the first occurrence, matching
	// the display order.
	byLesson map[string]*model.Material
}

// Build computes the flattened material ordering for a course.
// Sessions without materials contribute nothing: navigation crosses them
// rather than dead-ending.
func Build(course *model.Course) *Index {
	defer metrics.Timer(metrics.SequenceBuild)()
	ix := &Index{
		course:   course,
		prev:     make(map[*model.Material]*model.Material),
		next:     make(map[*model.Material]*model.Material),
		byLesson: make(map[string]*model.Material),
	}
	if course == nil {
		return ix
	}
	for _, session := range course.Sessions {
		for _, m := range session.Materials {
			if m.LessonSlug == "" {
				continue
			}
			ix.ordered = append(ix.ordered, m)
			if _, seen := ix.byLesson[m.LessonSlug]; !seen {
				ix.byLesson[m.LessonSlug] = m
			}
		}
	}
	for i, m := range ix.ordered {
		if i > 0 {
			ix.prev[m] = ix.ordered[i-1]
		}
		if i < len(ix.ordered)-1 {
			ix.next[m] = ix.ordered[i+1]
		}
	}
	return ix
}

// Course returns the course this index was built for.
func (ix *Index) Course() *model.Course {
	return ix.course
}

// Materials returns the materials in canonical order. The caller must not
// modify the returned slice.
func (ix *Index) Materials() []*model.Material {
	return ix.ordered
}

// PrevOf returns the material before m in the canonical order, or nil at
// the start of the course (or for materials outside the sequence).
func (ix *Index) PrevOf(m *model.Material) *model.Material {
	return ix.prev[m]
}

// NextOf returns the material after m in the canonical order, or nil at
// the end of the course (or for materials outside the sequence).
func (ix *Index) NextOf(m *model.Material) *model.Material {
	return ix.next[m]
}

// MaterialFor returns the material embedding the given lesson, or nil when
// the lesson is not part of the course.
func (ix *Index) MaterialFor(lesson *model.Lesson) *model.Material {
	if lesson == nil {
		return nil
	}
	return ix.byLesson[lesson.Slug]
}

// Chain is the ancestor chain of a page: Page → Lesson → Material →
// Session → Course. Links missing from the content graph are nil; a lesson
// viewed outside any course yields only the page and lesson.
type Chain struct {
	Page     *model.Page
	Lesson   *model.Lesson
	Material *model.Material
	Session  *model.Session
	Course   *model.Course
}

// Ancestors resolves the ancestor chain for a page. It never fails: any
// broken link truncates the chain instead.
func (ix *Index) Ancestors(p *model.Page) Chain {
	return ResolveAncestors(p, ix)
}

// ResolveAncestors resolves the ancestor chain for a page. A nil index
// resolves the page as standalone (no material, session or course).
func ResolveAncestors(p *model.Page, ix *Index) Chain {
	chain := Chain{Page: p}
	if p == nil {
		return chain
	}
	chain.Lesson = p.Lesson
	if chain.Lesson == nil || ix == nil {
		return chain
	}
	chain.Material = ix.MaterialFor(chain.Lesson)
	if chain.Material == nil {
		return chain
	}
	chain.Session = chain.Material.Session
	if chain.Session == nil {
		return chain
	}
	chain.Course = chain.Session.Course
	return chain
}
