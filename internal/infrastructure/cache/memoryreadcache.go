package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds a MemoryReadCache built without an explicit size.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryReadCache is a process-local ReadCache. Entries expire after the TTL
// and the least recently used ones are dropped once maxEntries is reached.
type MemoryReadCache struct {
	entries *lru.Cache[string, memoryEntry]
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryReadCache(ttl time.Duration, maxEntries int) *MemoryReadCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, memoryEntry](maxEntries)

	return &MemoryReadCache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}
}

func memoryKey(ns Namespace, key string) string {
	return string(ns) + "|" + key
}

func (c *MemoryReadCache) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error) {
	k := memoryKey(ns, key)
	entry, ok := c.entries.Get(k)
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.entries.Remove(k)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryReadCache) Put(ctx context.Context, ns Namespace, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.entries.Add(memoryKey(ns, key), memoryEntry{value: stored, expiresAt: c.now().Add(ttlWithJitter(c.ttl))})
	return nil
}

func (c *MemoryReadCache) Evict(ctx context.Context, ns Namespace, key string) error {
	c.entries.Remove(memoryKey(ns, key))
	return nil
}

func (c *MemoryReadCache) EvictAll(ctx context.Context, namespaces ...Namespace) error {
	if len(namespaces) == 0 {
		return nil
	}
	for _, k := range c.entries.Keys() {
		for _, ns := range namespaces {
			if strings.HasPrefix(k, string(ns)+"|") {
				c.entries.Remove(k)
				break
			}
		}
	}
	return nil
}
