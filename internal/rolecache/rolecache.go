// Package rolecache memoizes candidate sets per role for the lifetime of a
// session. A role is fetched from the remote service until one fetch
// succeeds; after that it is served from memory.
package rolecache

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/kingrea/league-pool/internal/champion"
)

// Fetcher retrieves the raw candidate labels for a role.
type Fetcher interface {
	Candidates(ctx context.Context, role champion.Role) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, role champion.Role) ([]string, error)

// Candidates calls f.
func (f FetcherFunc) Candidates(ctx context.Context, role champion.Role) ([]string, error) {
	return f(ctx, role)
}

// Cache maps roles to their sorted candidate sets. Entries never expire.
// Concurrent misses for the same role are not collapsed: each one fetches,
// and since the result is the same set the last write is as good as the first.
type Cache struct {
	fetcher Fetcher
	entries *cache.Cache
}

// New returns an empty cache backed by fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the candidate set for role, fetching it on a miss. A failed
// fetch leaves the role uncached.
func (c *Cache) Get(ctx context.Context, role champion.Role) (champion.Set, error) {
	if set, ok := c.Lookup(role); ok {
		return set, nil
	}
	if c.fetcher == nil {
		return champion.Set{}, fmt.Errorf("rolecache: no fetcher configured")
	}
	labels, err := c.fetcher.Candidates(ctx, role)
	if err != nil {
		return champion.Set{}, fmt.Errorf("rolecache: fetch %s: %w", role, err)
	}
	set := champion.NewSet(labels)
	c.entries.Set(string(role), set, cache.NoExpiration)
	return set, nil
}

// Lookup returns a cached set without touching the network.
func (c *Cache) Lookup(role champion.Role) (champion.Set, bool) {
	raw, found := c.entries.Get(string(role))
	if !found {
		return champion.Set{}, false
	}
	set, ok := raw.(champion.Set)
	return set, ok
}

// Len reports how many roles are cached.
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}
