package tagger

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached memoises another Tagger. Tagging is deterministic for a fixed
// model, so identical token sequences can share a result. Failed calls are
// not cached.
type Cached struct {
	next  Tagger
	cache *gocache.Cache
}

// NewCached wraps next with an in-memory cache. A ttl of zero keeps entries
// until the process exits.
func NewCached(next Tagger, ttl, cleanupInterval time.Duration) *Cached {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Tag implements Tagger.
func (c *Cached) Tag(ctx context.Context, tokens []string) ([]Pair, error) {
	key := strings.Join(tokens, "\x1f")
	if val, found := c.cache.Get(key); found {
		return clonePairs(val.([]Pair)), nil
	}

	pairs, err := c.next.Tag(ctx, tokens)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, clonePairs(pairs))
	return pairs, nil
}

// Len returns the number of cached entries.
func (c *Cached) Len() int {
	return c.cache.ItemCount()
}

func clonePairs(in []Pair) []Pair {
	out := make([]Pair, len(in))
	copy(out, in)
	return out
}
