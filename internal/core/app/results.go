package app

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"snipex/internal/engine/snippet"
	"snipex/internal/shared/observability"
)

// Failure is a rule that failed on one file.
type Failure struct {
	Rule  string `json:"rule"`
	Error string `json:"error"`
}

// FileResult is the extraction outcome for one file.
type FileResult struct {
	Path     string            `json:"path"`
	Language string            `json:"language"`
	Snippets []snippet.Snippet `json:"snippets"`
	Failures []Failure         `json:"failures"`
	Cached   bool              `json:"cached"`
	Skipped  bool              `json:"skipped,omitempty"`
	Error    string            `json:"error,omitempty"`

	Err error `json:"-"`
}

func (r FileResult) clone() FileResult {
	out := r
	out.Snippets = make([]snippet.Snippet, len(r.Snippets))
	for i, s := range r.Snippets {
		out.Snippets[i] = s.Clone()
	}
	out.Failures = append([]Failure{}, r.Failures...)
	return out
}

type CacheStats struct {
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// ResultCache memoizes file results by path and content hash, so an unchanged
// file is never re-extracted within the TTL.
type ResultCache struct {
	entries *expirable.LRU[string, FileResult]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func NewResultCache(size int, ttl time.Duration) *ResultCache {
	return &ResultCache{entries: expirable.NewLRU[string, FileResult](size, nil, ttl)}
}

func resultKey(path string, content []byte) string {
	return path + "\x00" + strconv.FormatUint(xxhash.Sum64(content), 16)
}

// Get returns a copy of the cached result with Cached set.
func (c *ResultCache) Get(path string, content []byte) (FileResult, bool) {
	if c == nil {
		return FileResult{}, false
	}
	r, ok := c.entries.Get(resultKey(path, content))
	if !ok {
		c.misses.Add(1)
		observability.ResultCacheLookupsTotal.WithLabelValues("miss").Inc()
		return FileResult{}, false
	}
	c.hits.Add(1)
	observability.ResultCacheLookupsTotal.WithLabelValues("hit").Inc()
	out := r.clone()
	out.Cached = true
	return out, true
}

func (c *ResultCache) Put(path string, content []byte, r FileResult) {
	if c == nil || r.Err != nil {
		return
	}
	c.entries.Add(resultKey(path, content), r.clone())
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *ResultCache) Purge() {
	if c != nil {
		c.entries.Purge()
	}
}

func (c *ResultCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	s := CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
