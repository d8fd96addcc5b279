package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	// a write-back older than this is impossible, loads are bounded by loadTimeout
	genTTL      = time.Hour
	loadTimeout = 5 * time.Second
)

// setIfGen stores KEYS[1] only while the generation counter KEYS[2] still
// holds the value read before loading. Del bumps the counter, so a load that
// raced an eviction never writes its stale value back.
var setIfGen = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.rdb.Close() }

func genKey(key string) string { return "gen:" + key }

// GetOrLoad returns the cached value for key, or calls load once per key and
// generation across concurrent callers and caches its result. A nil result
// from load is returned as is and not cached. The shared load is detached
// from the caller's cancellation so one aborted request does not fail the
// others waiting on it.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	gen, err := c.rdb.Get(ctx, genKey(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		// redis is unreachable, serve from the source without caching
		return load(ctx)
	}

	v, err, _ := c.sf.Do(key+"@"+gen, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		b, e := load(lctx)
		if e != nil || b == nil || ttl <= 0 {
			return b, e
		}
		_ = setIfGen.Run(lctx, c.rdb, []string{key, genKey(key)}, gen, b, ttl.Milliseconds()).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	b, _ = v.([]byte)

	return b, nil
}

// Del evicts keys and invalidates loads of them that are still in flight.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
		}
		return nil
	})
	return err
}
