package cmd

import (
	"sync"
	"time"

	"github.com/uiactl/uiactl/internal/model"
)

// treeCacheKey identifies a unique tree read scope.
type treeCacheKey struct {
	Window   uintptr
	ParentID string
	Depth    int
	DepthSet bool
}

// treeCacheEntry holds a cached tree result with its timestamp.
type treeCacheEntry struct {
	result    model.Result
	timestamp time.Time
}

// treeCache provides a TTL-based cache for tree reads. Agents tend to
// re-read the same window between actions; caching keeps that cheap without
// serving stale snapshots for long. A ttl of 0 disables caching.
type treeCache struct {
	mu      sync.Mutex
	entries map[treeCacheKey]treeCacheEntry
	ttl     time.Duration
}

func newTreeCache(ttl time.Duration) *treeCache {
	return &treeCache{
		entries: make(map[treeCacheKey]treeCacheEntry),
		ttl:     ttl,
	}
}

// get returns a cached result within TTL for this scope.
func (c *treeCache) get(q model.Query) (model.Result, bool) {
	if c.ttl == 0 {
		return model.Result{}, false
	}
	key := treeCacheKey{Window: q.Window, ParentID: q.ParentID, Depth: q.Depth, DepthSet: q.DepthSet}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Since(entry.timestamp) >= c.ttl {
		return model.Result{}, false
	}
	return entry.result, true
}

// put stores a successful tree read.
func (c *treeCache) put(q model.Query, res model.Result) {
	if c.ttl == 0 || !res.OK {
		return
	}
	key := treeCacheKey{Window: q.Window, ParentID: q.ParentID, Depth: q.Depth, DepthSet: q.DepthSet}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = treeCacheEntry{result: res, timestamp: time.Now()}
}

// invalidateAll clears the cache. Any action can change any window's tree,
// so write tools drop everything.
func (c *treeCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[treeCacheKey]treeCacheEntry)
}
