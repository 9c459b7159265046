package backend

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// retryConfig controls the backoff applied to idempotent reads. Mutations
// are never retried: a lost response would make the retry a duplicate.
type retryConfig struct {
	maxAttempts   int
	initialDelay  time.Duration
	maxDelay      time.Duration
	backoffFactor float64
	jitterFactor  float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts:   3,
		initialDelay:  100 * time.Millisecond,
		maxDelay:      5 * time.Second,
		backoffFactor: 2.0,
		jitterFactor:  0.1,
	}
}

// delay computes the wait before the given attempt (1-based) with
// exponential backoff and a little jitter against synchronized retries.
func (rc retryConfig) delay(attempt int) time.Duration {
	d := float64(rc.initialDelay) * math.Pow(rc.backoffFactor, float64(attempt-1))
	if max := float64(rc.maxDelay); d > max {
		d = max
	}
	jitter := d * rc.jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(d + jitter)
}

// retryable reports whether err is transient: transport failures and 5xx
// responses qualify, 4xx never does (the request itself is wrong).
func retryable(err error) bool {
	if err == nil || errors.Is(err, ErrUnavailable) || errors.Is(err, context.Canceled) {
		return false
	}
	var re *RequestError
	if errors.As(err, &re) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return false
}

// withRetry runs fn up to rc.maxAttempts times, sleeping between attempts
// and honoring ctx cancellation.
func withRetry(ctx context.Context, rc retryConfig, fn func() error) error {
	var err error
	for attempt := 1; attempt <= rc.maxAttempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == rc.maxAttempts {
			break
		}
		select {
		case <-time.After(rc.delay(attempt)):
		case <-ctx.Done():
			return &RequestError{Op: "retry", Err: ctx.Err()}
		}
	}
	return err
}
