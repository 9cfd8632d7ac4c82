package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fixed window: 5 requests per 60 seconds per client address. Applied to the
// credential endpoints only, to blunt guessing.
const (
	defaultWindow = 60 * time.Second
	defaultLimit  = 5
)

// Limiter is a fixed-window request counter backed by Redis, keyed by
// purpose and client address. The counter key expires with the window, so
// stale entries clean themselves up.
type Limiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		window: defaultWindow,
		limit:  defaultLimit,
	}
}

// Allow records one request and reports whether it is within the window cap.
// The request is counted even when rejected, so hammering the endpoint keeps
// the window closed.
func (l *Limiter) Allow(ctx context.Context, purpose, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", purpose, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// First hit in the window starts the clock
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= l.limit, nil
}
