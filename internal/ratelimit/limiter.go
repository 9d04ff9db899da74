package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults for the fixed-window IP limiter.
const (
	defaultWindow      = 15 * time.Minute
	defaultMaxRequests = 10
)

// Limiter is a redis-backed fixed-window rate limiter keyed by client IP,
// optionally scoped by purpose so register and login count separately.
type Limiter struct {
	client      *redis.Client
	window      time.Duration
	maxRequests int
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client:      client,
		window:      defaultWindow,
		maxRequests: defaultMaxRequests,
	}
}

func ipKey(ip, purpose string) string {
	if purpose == "" {
		return fmt.Sprintf("ratelimit:ip:%s", ip)
	}
	return fmt.Sprintf("ratelimit:%s:ip:%s", purpose, ip)
}

// CheckIPRateLimit reports whether the IP has exceeded the window limit.
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	return l.CheckIPRateLimitWithPurpose(ctx, ip, "")
}

// CheckIPRateLimitWithPurpose reports whether the IP has exceeded the
// window limit for the given purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return count >= l.maxRequests, nil
}

// RecordIPRequest counts a request against the IP's window.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	return l.RecordIPRequestWithPurpose(ctx, ip, "")
}

// RecordIPRequestWithPurpose counts a request against the IP's window for
// the given purpose. The window TTL is set when the key is first created.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}
