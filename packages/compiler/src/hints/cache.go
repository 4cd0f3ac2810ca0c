package hints

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized analyses
const DefaultCacheSize = 256

type cacheEntry struct {
	source string
	hints  *TypeHints
}

// Cache memoizes Provider results across compiles. Entries are keyed by a
// hash of file name, source text and identifier; a hit is only returned when
// the stored source text is identical to the requested one. A Cache and the
// providers it wraps are safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache creates a Cache holding at most size entries
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		// only reachable with a non-positive size, which is excluded above
		panic(err)
	}
	return &Cache{entries: entries}
}

// Key returns the cache key of an analysis
func Key(fileName, source, identifier string) string {
	h := sha256.New()
	h.Write([]byte(fileName))
	h.Write([]byte{0})
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(identifier))
	return hex.EncodeToString(h.Sum(nil))
}

// Wrap returns a Provider that consults the cache before calling provider
func (c *Cache) Wrap(fileName string, provider Provider) Provider {
	if provider == nil {
		return nil
	}
	return func(source, identifier string) *TypeHints {
		key := Key(fileName, source, identifier)
		if entry, ok := c.entries.Get(key); ok && entry.source == source {
			c.hits.Add(1)
			return entry.hints
		}
		c.misses.Add(1)
		result := provider(source, identifier)
		c.entries.Add(key, cacheEntry{source: source, hints: result})
		return result
	}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len returns the number of cached analyses
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats returns the hit and miss counters since the last Clear
func (c *Cache) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
