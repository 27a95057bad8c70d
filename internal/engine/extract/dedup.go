package extract

import (
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"snipex/internal/core/errors"
	"snipex/internal/engine/snippet"
	"snipex/internal/shared/observability"
)

// CachePolicy selects how the content hash memo stays bounded.
type CachePolicy string

const (
	// CachePolicyLRU evicts the least recently used entry at capacity.
	CachePolicyLRU CachePolicy = "lru"
	// CachePolicyReset clears the whole memo once it exceeds capacity.
	CachePolicyReset CachePolicy = "reset"
)

// HashCache memoizes content hashes. Implementations are safe for concurrent
// use; dedup correctness never depends on what they retain.
type HashCache interface {
	Hash(content string) uint32
	Len() int
	Stats() CacheStats
	Purge()
}

type CacheStats struct {
	Hits   uint64
	Misses uint64
	Resets uint64
}

// HitRate is hits over lookups, or 0 before the first lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewHashCache builds a memo of the given policy and capacity.
func NewHashCache(policy CachePolicy, capacity int) (HashCache, error) {
	if capacity <= 0 {
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("hash cache capacity must be positive, got %d", capacity))
	}
	switch policy {
	case CachePolicyLRU, "":
		c, err := lru.New[string, uint32](capacity)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "create lru hash cache")
		}
		return &lruHashCache{cache: c}, nil
	case CachePolicyReset:
		return &resetHashCache{capacity: capacity, entries: make(map[string]uint32)}, nil
	default:
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("unknown hash cache policy %q", policy))
	}
}

// HashContent is the 32-bit FNV-1a hash of content.
func HashContent(content string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return h.Sum32()
}

type lruHashCache struct {
	cache  *lru.Cache[string, uint32]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (c *lruHashCache) Hash(content string) uint32 {
	if v, ok := c.cache.Get(content); ok {
		c.hits.Add(1)
		observability.HashCacheLookupsTotal.WithLabelValues("hit").Inc()
		return v
	}
	c.misses.Add(1)
	observability.HashCacheLookupsTotal.WithLabelValues("miss").Inc()
	v := HashContent(content)
	c.cache.Add(content, v)
	return v
}

func (c *lruHashCache) Len() int { return c.cache.Len() }

func (c *lruHashCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *lruHashCache) Purge() { c.cache.Purge() }

type resetHashCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]uint32
	hits     uint64
	misses   uint64
	resets   uint64
}

func (c *resetHashCache) Hash(content string) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[content]; ok {
		c.hits++
		observability.HashCacheLookupsTotal.WithLabelValues("hit").Inc()
		return v
	}
	c.misses++
	observability.HashCacheLookupsTotal.WithLabelValues("miss").Inc()
	v := HashContent(content)
	c.entries[content] = v
	if len(c.entries) > c.capacity {
		c.entries = make(map[string]uint32)
		c.resets++
		observability.HashCacheResetsTotal.Inc()
	}
	return v
}

func (c *resetHashCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resetHashCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Resets: c.resets}
}

func (c *resetHashCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]uint32)
}

// Deduplicate keeps the first snippet for every content hash. Distinct
// contents that collide are treated as duplicates.
func Deduplicate(snippets []snippet.Snippet, cache HashCache) ([]snippet.Snippet, int) {
	seen := make(map[uint32]struct{}, len(snippets))
	out := make([]snippet.Snippet, 0, len(snippets))
	for _, s := range snippets {
		var h uint32
		if cache != nil {
			h = cache.Hash(s.Content)
		} else {
			h = HashContent(s.Content)
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, s)
	}
	return out, len(snippets) - len(out)
}
