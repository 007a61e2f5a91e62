package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds the version the
// caller read before loading the value. ARGV[3] is the ttl in milliseconds,
// 0 for no expiry.
var setIfVersion = goredis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return false
end
if tonumber(ARGV[3]) > 0 then
	return redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return redis.call('SET', KEYS[1], ARGV[2])
`)

// ViewCache is a JSON-backed redis cache for list projections. A ViewCache
// with no client never hits and silently drops writes, so callers can run
// without redis.
//
// Every key carries a write version next to it. Delete bumps the version,
// and Set only lands when the version is unchanged since the caller read it,
// so a reader that loaded rows before an invalidation cannot put them back.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewViewCache[T any](client *goredis.Client, ttl time.Duration, logger *slog.Logger) *ViewCache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewCache[T]{client: client, ttl: ttl, logger: logger}
}

func (c *ViewCache[T]) enabled() bool {
	return c != nil && c.client != nil
}

func versionKey(key string) string {
	return key + ":version"
}

// Get returns (nil, false) on a miss, a disabled cache or a decode error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("ViewCache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("ViewCache decode failed", "key", key, "error", err)
		return nil, false
	}
	return &v, true
}

// Version returns the current write version of key, 0 when it was never
// invalidated. A negative result means the version could not be read and
// the following Set is skipped.
func (c *ViewCache[T]) Version(ctx context.Context, key string) int64 {
	if !c.enabled() {
		return 0
	}
	v, err := c.client.Get(ctx, versionKey(key)).Int64()
	if err == goredis.Nil {
		return 0
	}
	if err != nil {
		c.logger.Warn("ViewCache version read failed", "key", key, "error", err)
		return -1
	}
	return v
}

// Set stores value under key if key has not been deleted since version was
// read. Write failures are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, version int64, value *T) {
	if !c.enabled() || version < 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("ViewCache marshal failed", "key", key, "error", err)
		return
	}
	keys := []string{key, versionKey(key)}
	err = setIfVersion.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Err()
	switch {
	case err == goredis.Nil:
		c.logger.Debug("ViewCache write skipped, view was invalidated", "key", key)
	case err != nil:
		c.logger.Warn("ViewCache write failed", "key", key, "error", err)
	}
}

// Delete drops keys and bumps their versions in one transaction.
func (c *ViewCache[T]) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.logger.Warn("ViewCache delete failed", "keys", keys, "error", err)
	}
}
