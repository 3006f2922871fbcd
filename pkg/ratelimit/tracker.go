package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	seatsRateLimitHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seats_rate_limit_hits_total",
		Help: "Total number of 429 responses recorded",
	})

	seatsRateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seats_rate_limit_blocks_total",
		Help: "Total number of requests rejected because the block exceeded the max wait",
	})

	seatsRateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seats_rate_limit_throttles_total",
		Help: "Total number of requests delayed by the rate limit gate",
	})
)

// Tracker stores 429 back-off state in Redis and gates requests on it.
type Tracker struct {
	redis   *redis.Client
	logger  zerolog.Logger
	scope   string
	maxWait time.Duration
}

// NewTracker creates a new rate limit tracker.
// scope separates credentials sharing one Redis; maxWait <= 0 uses DefaultMaxWait.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger, scope string, maxWait time.Duration) *Tracker {
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Tracker{
		redis:   redisClient,
		logger:  logger,
		scope:   scope,
		maxWait: maxWait,
	}
}

func (t *Tracker) key(suffix string) string {
	if t.scope == "" {
		return redisKeyPrefix + ":" + suffix
	}
	return redisKeyPrefix + ":" + t.scope + ":" + suffix
}

// GetState retrieves the current rate limit state from Redis.
// Returns an unblocked state if nothing is stored.
func (t *Tracker) GetState(ctx context.Context) (*State, error) {
	blockedMillis, err := t.redis.Get(ctx, t.key(redisKeyBlockedSuffix)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("get blocked until: %w", err)
	}

	updatedMillis, err := t.redis.Get(ctx, t.key(redisKeyUpdatedSuffix)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get last update: %w", err)
	}

	return &State{
		BlockedUntil: time.UnixMilli(blockedMillis),
		LastUpdate:   time.UnixMilli(updatedMillis),
	}, nil
}

// UpdateFromResponse records a 429 answer. Other statuses are ignored.
func (t *Tracker) UpdateFromResponse(ctx context.Context, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests {
		return nil
	}
	seatsRateLimitHitsTotal.Inc()

	now := time.Now()
	wait, err := ParseRetryAfter(headers.Get("Retry-After"), now)
	if err != nil {
		return err
	}
	if wait <= 0 {
		return nil
	}

	state := &State{BlockedUntil: now.Add(wait), LastUpdate: now}

	// Never shorten a block another instance already stored
	current, err := t.GetState(ctx)
	if err != nil {
		return err
	}
	if current.BlockedUntil.After(state.BlockedUntil) {
		return nil
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, t.key(redisKeyBlockedSuffix), strconv.FormatInt(state.BlockedUntil.UnixMilli(), 10), wait)
	pipe.Set(ctx, t.key(redisKeyUpdatedSuffix), strconv.FormatInt(now.UnixMilli(), 10), wait)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}

	t.logger.Warn().
		Dur("retry_after", wait).
		Time("blocked_until", state.BlockedUntil).
		Msg("Rate limited by server - requests will wait")

	return nil
}

// Wait blocks until the gate opens. It returns ErrBlocked without waiting when
// the remaining block is longer than the configured max wait, and the context
// error when ctx ends first.
func (t *Tracker) Wait(ctx context.Context) error {
	state, err := t.GetState(ctx)
	if err != nil {
		return fmt.Errorf("get rate limit state: %w", err)
	}

	remaining := state.Remaining()
	if remaining <= 0 {
		return nil
	}

	if remaining > t.maxWait {
		t.logger.Error().
			Dur("remaining", remaining).
			Dur("max_wait", t.maxWait).
			Msg("Rate limit block too long - rejecting request")
		seatsRateLimitBlocksTotal.Inc()
		return fmt.Errorf("%w: %s remaining", ErrBlocked, remaining.Round(time.Millisecond))
	}

	t.logger.Debug().
		Dur("remaining", remaining).
		Msg("Rate limit active - delaying request")
	seatsRateLimitThrottlesTotal.Inc()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
