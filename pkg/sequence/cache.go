package sequence

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
)

// Cache memoizes a built Index per course content hash.
// Thread-safe for concurrent access; rendering requests share the cached
// index read-only while the watcher invalidates it on course reload.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	hash       string
	index      *Index
	computedAt time.Time
}

// DefaultCacheTTL bounds how long a cached index is served without the
// course being re-hashed. Content is immutable post-load, so the TTL only
// matters for long-lived processes that miss an invalidation.
const DefaultCacheTTL = 5 * time.Minute

// NewCache creates a cache with the specified TTL. A zero TTL means
// entries never expire by age.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached index for the course if its content hash still
// matches. Returns (nil, false) on a miss.
func (c *Cache) Get(course *model.Course) (*Index, bool) {
	// Compute hash outside the lock.
	hash := ComputeDataHash(course)

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[course.Slug]
	if !ok || entry.hash != hash {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.computedAt) >= c.ttl {
		return nil, false
	}
	return entry.index, true
}

// GetOrBuild returns the cached index or builds and stores a fresh one.
func (c *Cache) GetOrBuild(course *model.Course) *Index {
	if ix, ok := c.Get(course); ok {
		metrics.SequenceCache.Hit()
		return ix
	}
	metrics.SequenceCache.Miss()
	ix := Build(course)
	c.Set(course, ix)
	return ix
}

// Set stores a built index for the course.
func (c *Cache) Set(course *model.Course, ix *Index) {
	hash := ComputeDataHash(course)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[course.Slug] = &cacheEntry{
		hash:       hash,
		index:      ix,
		computedAt: time.Now(),
	}
}

// Invalidate drops the cached index for one course slug.
func (c *Cache) Invalidate(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, slug)
}

// InvalidateAll drops every cached index, e.g. after a content reload.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// ComputeDataHash generates a deterministic hash of the course structure
// that the flattened ordering depends on: session order, material order,
// and the lesson each material points at.
func ComputeDataHash(course *model.Course) string {
	if course == nil {
		return "empty"
	}
	if course.Etag != "" {
		return course.Etag
	}

	h := sha256.New()
	h.Write([]byte(course.Slug))
	h.Write([]byte{0})
	for _, session := range course.Sessions {
		h.Write([]byte(session.Slug))
		h.Write([]byte{0})
		for _, m := range session.Materials {
			h.Write([]byte(m.Title))
			h.Write([]byte{0})
			h.Write([]byte(m.LessonSlug))
			h.Write([]byte{0})
			h.Write([]byte(m.ExternalURL))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
