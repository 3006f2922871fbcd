package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	seatsRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	seatsRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seats_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	seatsRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    400 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// newBackOff builds the backoff policy for one request.
// Jitter is ±20% around the exponential interval.
func (c RetryConfig) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.InitialBackoff
	eb.MaxInterval = c.MaxBackoff
	eb.Multiplier = c.BackoffMultiplier
	eb.RandomizationFactor = 0.2
	eb.MaxElapsedTime = 0

	retries := c.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// attemptError carries the classification of a failed attempt through the backoff loop.
type attemptError struct {
	class ErrorClass
	err   error
}

func (e *attemptError) Error() string { return e.err.Error() }
func (e *attemptError) Unwrap() error { return e.err }

// retryWithBackoff executes fn with exponential backoff.
// fn reports the class of its failure; classes that shouldRetry rejects for
// the given method end the loop immediately.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, method string, fn func() (ErrorClass, error)) error {
	attempt := 0
	operation := func() error {
		attempt++
		class, err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Str("error_class", string(class)).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}
		if !shouldRetry(class, method) {
			return backoff.Permanent(&attemptError{class: class, err: err})
		}
		return &attemptError{class: class, err: err}
	}

	notify := func(err error, wait time.Duration) {
		class := classOf(err)
		seatsRetriesTotal.WithLabelValues(string(class)).Inc()
		seatsRetryBackoffSeconds.WithLabelValues(string(class)).Observe(wait.Seconds())
		log.Debug().
			Err(err).
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")
	}

	err := backoff.RetryNotify(operation, cfg.newBackOff(ctx), notify)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn().
			Int("attempt", attempt).
			Msg("Context cancelled during retry backoff")
		return fmt.Errorf("%w: %w", ErrContextCancelled, ctxErr)
	}

	class := classOf(err)
	if !shouldRetry(class, method) {
		return unwrapAttempt(err)
	}

	seatsRetryExhaustedTotal.WithLabelValues(string(class)).Inc()
	log.Warn().
		Str("error_class", string(class)).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempt, unwrapAttempt(err))
}

func classOf(err error) ErrorClass {
	var ae *attemptError
	if errors.As(err, &ae) {
		return ae.class
	}
	return ""
}

func unwrapAttempt(err error) error {
	var ae *attemptError
	if errors.As(err, &ae) {
		return ae.err
	}
	return err
}
