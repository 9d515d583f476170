package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sendfleet/campaigner/internal/ratelimit"
)

const (
	defaultSendRate = 100
	waitPoll        = 25 * time.Millisecond
)

// Fixed one-second windows keyed by unix second. The TTL only has to outlive
// the window, so it is stamped at two seconds on the first hit.
var rateScript = goredis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("EXPIRE", KEYS[1], 2)
end
if hits <= tonumber(ARGV[1]) then
  return 1
end
return 0
`)

var _ ratelimit.RateLimiter = (*RedisRateLimiter)(nil)

// RedisRateLimiter paces outbound sends across processes so the gateway
// session is never flooded, whatever mix of batch and direct sends is running.
type RedisRateLimiter struct {
	client *goredis.Client
	limit  int64

	// overridden in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRedisRateLimiter(client *goredis.Client, limitPerSec int) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	limit := int64(limitPerSec)
	if limit <= 0 {
		limit = defaultSendRate
	}

	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		now:    time.Now,
		sleep:  sleepContext,
	}, nil
}

// Allow consumes one slot from the current window for key. A false return
// means the window is exhausted; the caller decides whether to wait or drop.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false, fmt.Errorf("rate limit key is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	bucket := fmt.Sprintf("ratelimit:%s:%d", key, l.now().UTC().Unix())
	allowed, err := rateScript.Run(ctx, l.client, []string{bucket}, l.limit).Bool()
	if err != nil {
		return false, fmt.Errorf("rate limit eval: %w", err)
	}

	return allowed, nil
}

// Wait blocks until a slot frees up or the context ends.
func (l *RedisRateLimiter) Wait(ctx context.Context, key string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		allowed, err := l.Allow(ctx, key)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
		if err := l.sleep(ctx, waitPoll); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
