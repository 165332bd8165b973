package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// takeScript prunes the window, checks the count and conditionally records
// the request in one atomic step. KEYS[1] is the window key; ARGV are
// now-millis, window-millis, limit and a unique member for this request.
var takeScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)

if redis.call('ZCARD', KEYS[1]) >= limit then
  return 0
end

redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)

return 1
`)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store, backed
// by one sorted set of request timestamps per key. The Lua script keeps
// check-and-record atomic across processes.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Take(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	res, err := takeScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		time.Now().UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int64()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}
