package netutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultRetryConfig(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableErrorsUntilSuccess(t *testing.T) {
	calls := 0
	cfg := RetryConfig{MaxRetries: 5, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Multiplier: 2}
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &StatusError{Code: http.StatusServiceUnavailable}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	cfg := RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Multiplier: 2}
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return &StatusError{Code: http.StatusTooManyRequests}
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableErrorStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultRetryConfig(), func(ctx context.Context) error {
		calls++
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_HonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxRetries: 5, InitialBackoff: 50 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2}

	calls := 0
	cancel()
	err := Do(ctx, cfg, func(ctx context.Context) error {
		calls++
		return &StatusError{Code: http.StatusServiceUnavailable}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"429 too many requests", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"500 internal server error", &StatusError{Code: http.StatusInternalServerError}, true},
		{"503 service unavailable", &StatusError{Code: http.StatusServiceUnavailable}, true},
		{"404 not found is not retryable", &StatusError{Code: http.StatusNotFound}, false},
		{"connection refused by message", errors.New("dial tcp: connection refused"), true},
		{"timeout by message", errors.New("context deadline exceeded: timeout"), true},
		{"unrelated error", errors.New("invalid query"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Code: http.StatusTooManyRequests}
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestNewServiceLimiter_WaitBlocksForMinInterval(t *testing.T) {
	lim := NewServiceLimiter(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, lim.Wait(ctx))
	start := time.Now()
	require.NoError(t, lim.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestNewServiceLimiter_NonPositiveIntervalDefaultsToOneMillisecond(t *testing.T) {
	lim := NewServiceLimiter(0)
	require.NoError(t, lim.Wait(context.Background()))
}
