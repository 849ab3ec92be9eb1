package userstream

import (
	"context"
	"strings"
	"sync"
)

// QueryCache maps a normalized query key to a previously fetched result set.
// It replaces ad-hoc process-global caches with an explicit component the
// caller owns: entries live until the caller invalidates them, and the cache
// never invalidates on its own.
//
// Keys are normalized with [NormalizeQuery], so "SELECT * FROM user_data"
// and "select  *  from user_data" share an entry. Cached slices are copied
// on both store and load; callers may mutate what they get back.
//
// Safe for concurrent use.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string][]Record
}

// NewQueryCache creates an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: map[string][]Record{}}
}

// NormalizeQuery case-folds a query and collapses its whitespace, producing
// the cache key for it.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Get returns the cached result for query, if present.
func (c *QueryCache) Get(query string) ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, ok := c.entries[NormalizeQuery(query)]
	if !ok {
		return nil, false
	}
	return cloneRecords(records), true
}

// Put stores the result for query, replacing any existing entry.
func (c *QueryCache) Put(query string, records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[NormalizeQuery(query)] = cloneRecords(records)
}

// Fetch returns the cached result for query, or runs fetch and caches its
// result. A fetch error is returned as-is and nothing is cached.
func (c *QueryCache) Fetch(ctx context.Context, query string, fetch func(ctx context.Context) ([]Record, error)) ([]Record, error) {
	if records, ok := c.Get(query); ok {
		return records, nil
	}
	records, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Put(query, records)
	return cloneRecords(records), nil
}

// Invalidate removes the entry for query, if present.
func (c *QueryCache) Invalidate(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, NormalizeQuery(query))
}

// Reset drops every entry.
func (c *QueryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]Record{}
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
