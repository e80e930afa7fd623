// Package history fetches and caches the list of past analysis jobs.
package history

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tradecheck/internal/model"
)

const cacheKey = "history"

// Fetch retrieves up to limit history entries, newest first
type Fetch func(ctx context.Context, limit int) ([]model.HistoryEntry, error)

// Cache is a stateless re-fetching history view with a short TTL memo.
// Refresh errors are swallowed: the view keeps its last successfully
// fetched entries.
type Cache struct {
	fetch Fetch
	limit int
	store *gocache.Cache

	mu   sync.Mutex
	last []model.HistoryEntry
}

// NewCache creates a history cache. A non-positive limit defaults to 20.
func NewCache(fetch Fetch, limit int, ttl time.Duration) *Cache {
	if limit <= 0 {
		limit = 20
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		fetch: fetch,
		limit: limit,
		store: gocache.New(ttl, 2*ttl),
	}
}

// Refresh re-fetches the history list. On failure it returns the last
// successfully fetched entries and the error for optional logging; the
// caller's display simply keeps its previous state.
func (c *Cache) Refresh(ctx context.Context) ([]model.HistoryEntry, error) {
	entries, err := c.fetch(ctx, c.limit)
	if err != nil {
		return c.Entries(), err
	}

	c.store.Set(cacheKey, entries, gocache.DefaultExpiration)
	c.mu.Lock()
	c.last = entries
	c.mu.Unlock()
	return entries, nil
}

// Entries returns the most recent successful fetch without touching the
// network. The TTL memo is preferred while fresh.
func (c *Cache) Entries() []model.HistoryEntry {
	if cached, found := c.store.Get(cacheKey); found {
		if entries, ok := cached.([]model.HistoryEntry); ok {
			return entries
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Invalidate drops the TTL memo so the next Refresh hits the service
func (c *Cache) Invalidate() {
	c.store.Delete(cacheKey)
}
