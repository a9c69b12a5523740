package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"urbanincidents/internal/shared/logger"
)

// RedisReadCache stores each entry as a plain string key and tracks the keys
// of a namespace in a set so EvictAll can drop them without SCAN.
type RedisReadCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisReadCache(client *redis.Client, prefix string, ttl time.Duration, logger logger.Interface) *RedisReadCache {
	return &RedisReadCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisReadCache) entryKey(ns Namespace, key string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, ns, key)
}

func (c *RedisReadCache) indexKey(ns Namespace) string {
	return fmt.Sprintf("%s%s:_keys", c.prefix, ns)
}

func (c *RedisReadCache) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.entryKey(ns, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return value, true, nil
}

func (c *RedisReadCache) Put(ctx context.Context, ns Namespace, key string, value []byte) error {
	ttl := ttlWithJitter(c.ttl)
	entryKey := c.entryKey(ns, key)
	indexKey := c.indexKey(ns)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, entryKey, value, ttl)
	pipe.SAdd(ctx, indexKey, entryKey)
	// The index outlives every entry it tracks.
	pipe.Expire(ctx, indexKey, ttl*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

func (c *RedisReadCache) Evict(ctx context.Context, ns Namespace, key string) error {
	entryKey := c.entryKey(ns, key)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, entryKey)
	pipe.SRem(ctx, c.indexKey(ns), entryKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to evict cache entry: %w", err)
	}
	return nil
}

// evictNamespaceScript deletes every tracked entry and the index atomically,
// so a concurrent Put cannot slip a key into an index that is being dropped.
var evictNamespaceScript = redis.NewScript(`
local keys = redis.call('SMEMBERS', KEYS[1])
for i = 1, #keys, 500 do
	redis.call('DEL', unpack(keys, i, math.min(i + 499, #keys)))
end
redis.call('DEL', KEYS[1])
return #keys
`)

func (c *RedisReadCache) EvictAll(ctx context.Context, namespaces ...Namespace) error {
	for _, ns := range namespaces {
		evicted, err := evictNamespaceScript.Run(ctx, c.client, []string{c.indexKey(ns)}).Int()
		if err != nil {
			return fmt.Errorf("failed to evict cache namespace %s: %w", ns, err)
		}
		c.logger.Debugw("cache namespace evicted", "namespace", ns, "entries", evicted)
	}
	return nil
}
