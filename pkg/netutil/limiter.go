package netutil

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ServiceLimiter enforces the "minimum inter-request interval" spec.md §4.2
// and §5 require for every network-bound stage. It wraps golang.org/x/time/rate
// with a single-token bucket, which is exactly a minimum-interval limiter.
type ServiceLimiter struct {
	limiter *rate.Limiter
}

// NewServiceLimiter builds a limiter enforcing at least minInterval between
// successive Wait() returns.
func NewServiceLimiter(minInterval time.Duration) *ServiceLimiter {
	if minInterval <= 0 {
		minInterval = time.Millisecond
	}
	return &ServiceLimiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the limiter permits the next request or ctx is done.
func (s *ServiceLimiter) Wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}
