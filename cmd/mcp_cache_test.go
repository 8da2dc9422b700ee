package cmd

import (
	"testing"
	"time"

	"github.com/uiactl/uiactl/internal/model"
)

func TestTreeCache_HitWithinTTL(t *testing.T) {
	c := newTreeCache(time.Minute)
	q := model.Query{Window: 0x2043c, Depth: 2, DepthSet: true}
	res := model.Result{OK: true, Action: "get_tree", Count: 7}

	c.put(q, res)
	got, ok := c.get(q)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Count != 7 {
		t.Errorf("Count = %d", got.Count)
	}
}

func TestTreeCache_ScopeIsPartOfKey(t *testing.T) {
	c := newTreeCache(time.Minute)
	c.put(model.Query{Window: 0x2043c}, model.Result{OK: true})

	if _, ok := c.get(model.Query{Window: 0x9999}); ok {
		t.Error("different window must miss")
	}
	if _, ok := c.get(model.Query{Window: 0x2043c, Depth: 1, DepthSet: true}); ok {
		t.Error("different depth must miss")
	}
}

func TestTreeCache_Expiry(t *testing.T) {
	c := newTreeCache(10 * time.Millisecond)
	q := model.Query{Window: 0x2043c}
	c.put(q, model.Result{OK: true})

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.get(q); ok {
		t.Error("entry past TTL must miss")
	}
}

func TestTreeCache_Disabled(t *testing.T) {
	c := newTreeCache(0)
	q := model.Query{Window: 0x2043c}
	c.put(q, model.Result{OK: true})
	if _, ok := c.get(q); ok {
		t.Error("ttl 0 disables caching")
	}
}

func TestTreeCache_FailuresNotCached(t *testing.T) {
	c := newTreeCache(time.Minute)
	q := model.Query{Window: 0x2043c}
	c.put(q, model.Result{OK: false, Error: model.ErrWindowNotFound})
	if _, ok := c.get(q); ok {
		t.Error("failed reads must not be cached")
	}
}

func TestTreeCache_InvalidateAll(t *testing.T) {
	c := newTreeCache(time.Minute)
	q := model.Query{Window: 0x2043c}
	c.put(q, model.Result{OK: true})
	c.invalidateAll()
	if _, ok := c.get(q); ok {
		t.Error("invalidated entry must miss")
	}
}
