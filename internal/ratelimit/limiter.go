// Package ratelimit implements a fixed-window request limiter backed by
// redis counters. One counter exists per (prefix, client key) pair; the
// first hit of a window creates the counter with the window TTL and every
// further hit increments it. The counter expiring is what opens the next
// window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter over a shared redis instance.
// It is safe for concurrent use.
type Limiter struct {
	client *redis.Client
	logger *logger.Logger

	// prefix namespaces the counters so several limiters with different
	// policies can share one redis database.
	prefix string

	limit  int
	window time.Duration
}

// NewLimiter constructs a limiter allowing limit requests per window for
// each distinct key under the given prefix.
func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger *logger.Logger) *Limiter {
	logger.Debug().Str("prefix", prefix).Int("limit", limit).Dur("window", window).Msg("creating rate limiter")
	return &Limiter{
		client: client,
		logger: logger,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *Limiter) key(clientKey string) string {
	return l.prefix + ":" + clientKey
}

// Allow records one hit for clientKey and reports whether it is within the
// window's budget. The INCR and the EXPIRE are not one atomic unit; if the
// process dies between them the counter lives without a TTL until the next
// window's first hit recreates it, which over-counts but never under-counts.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	key := l.key(clientKey)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("key", key).Msg("rate limit counter increment failed")
		return false, fmt.Errorf("rate limit counter increment failed: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			logger.FromContext(ctx).Err(err).Str("key", key).Msg("rate limit counter expiry failed")
			return false, fmt.Errorf("rate limit counter expiry failed: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// Reset drops the counter for clientKey, reopening its window immediately.
func (l *Limiter) Reset(ctx context.Context, clientKey string) error {
	if err := l.client.Del(ctx, l.key(clientKey)).Err(); err != nil {
		return fmt.Errorf("rate limit counter reset failed: %w", err)
	}
	return nil
}
