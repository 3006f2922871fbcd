// Package ratelimit implements a shared gate for the seating API's rate limit.
// A 429 Too Many Requests answer carries a Retry-After header; the resulting
// "blocked until" moment is stored in Redis so every client instance using the
// same credentials backs off together.
package ratelimit

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Redis key layout for rate limit state storage.
const (
	redisKeyPrefix        = "seats:rate_limit"
	redisKeyBlockedSuffix = "blocked_until"
	redisKeyUpdatedSuffix = "last_update"
	defaultRetryAfter     = 1 * time.Second
	maxRetryAfter         = 5 * time.Minute
)

// DefaultMaxWait is the longest a request waits for the gate before it is rejected.
const DefaultMaxWait = 10 * time.Second

// ErrBlocked is returned by Tracker.Wait when the remaining block exceeds the max wait.
var ErrBlocked = errors.New("rate limit block exceeds max wait")

// State represents the current rate limit state shared via Redis.
type State struct {
	// BlockedUntil is the moment the server allows requests again.
	BlockedUntil time.Time `json:"blocked_until"`

	// LastUpdate is when a 429 last updated this state.
	LastUpdate time.Time `json:"last_update"`
}

// IsBlocked reports whether requests must wait.
func (s *State) IsBlocked() bool {
	return s.Remaining() > 0
}

// Remaining returns how long requests must still wait, or 0.
func (s *State) Remaining() time.Duration {
	d := time.Until(s.BlockedUntil)
	if d < 0 {
		return 0
	}
	return d
}

// IsStale returns true if the state data is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// ParseRetryAfter reads a Retry-After header value, either delta-seconds or an
// HTTP date. An empty value yields the default one-second pause. The result is
// clamped to five minutes.
func ParseRetryAfter(value string, now time.Time) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultRetryAfter, nil
	}

	var d time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative Retry-After: %d", secs)
		}
		d = time.Duration(secs) * time.Second
	} else {
		at, perr := http.ParseTime(value)
		if perr != nil {
			return 0, fmt.Errorf("parse Retry-After header %q: %w", value, perr)
		}
		d = at.Sub(now)
		if d < 0 {
			d = 0
		}
	}

	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, nil
}
