// Package netutil provides the retry, backoff, and rate-limiting building
// blocks shared by every network-bound stage (acquisition, resolution,
// ontology alignment — spec.md §5, §4.2, §4.7, §4.8).
//
// The retry/backoff shape is grounded on the teacher's embedding generator
// (classified retryable errors, exponential backoff with full jitter,
// capped attempts); rate limiting adds golang.org/x/time/rate, which the
// teacher doesn't use but the rest of the retrieval pack (linear-fuse)
// already depends on for the same "minimum inter-request interval" problem.
package netutil

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"
)

// RetryConfig bounds exponential-backoff retry loops for external calls.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig matches the cap spec.md §4.2/§5 calls for: each retry
// capped, exponential backoff, bounded attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	}
}

func (c RetryConfig) sanitized() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 2 * time.Second
	}
	if c.Multiplier <= 1.0 {
		c.Multiplier = 2.0
	}
	return c
}

// Do runs fn, retrying on a retryable error with exponential backoff and
// full jitter, up to cfg.MaxRetries attempts. It honors ctx cancellation
// between attempts (§5 "cooperative cancellation").
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	cfg = cfg.sanitized()

	var lastErr error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || attempt == cfg.MaxRetries-1 {
			return lastErr
		}

		sleep := backoffWithJitter(cfg.InitialBackoff, attempt, cfg.Multiplier, cfg.MaxBackoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return lastErr
}

// IsRetryable classifies an error as transient: network errors, timeouts,
// and HTTP 429/5xx responses are retryable (§4.2, §5).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"timeout", "connection refused", "connection reset", "deadline exceeded", "eof", "temporarily unavailable"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// StatusError wraps a non-2xx HTTP response status for retry classification.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "http status " + http.StatusText(e.Code)
}

func backoffWithJitter(base time.Duration, attempt int, mult float64, cap time.Duration) time.Duration {
	exp := float64(base)
	for i := 0; i < attempt; i++ {
		exp *= mult
	}
	d := time.Duration(exp)
	if d > cap {
		d = cap
	}
	if d <= 0 {
		return base
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}
