// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Keep backoff waits out of the test run.
	RetryBaseDelay = 1 * time.Millisecond
}

// rateLimitedHost serves 429 for the first reject requests, then the
// given final status, counting every request it sees.
func rateLimitedHost(t *testing.T, reject int32, final int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= reject {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(final)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func headRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodHead, url, nil)
	require.NoError(t, err)
	return req
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		reject     int32
		final      int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{
			name:       "clean host needs one request",
			reject:     0,
			final:      http.StatusOK,
			maxRetries: 5,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "recovers after two rejections",
			reject:     2,
			final:      http.StatusOK,
			maxRetries: 5,
			wantStatus: http.StatusOK,
			wantCalls:  3,
		},
		{
			name:       "returns the last 429 when retries run out",
			reject:     10,
			final:      http.StatusOK,
			maxRetries: 3,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  4, // initial request plus three retries
		},
		{
			name:       "zero maxRetries falls back to the default of five",
			reject:     10,
			final:      http.StatusOK,
			maxRetries: 0,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  6,
		},
		{
			name:       "missing artifact is not retried",
			reject:     0,
			final:      http.StatusNotFound,
			maxRetries: 5,
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := rateLimitedHost(t, tt.reject, tt.final)

			resp, err := DoWithRetry(context.Background(), ts.Client(), headRequest(t, ts.URL), tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetryContextCancelledDuringBackoff(t *testing.T) {
	ts, _ := rateLimitedHost(t, 100, http.StatusOK)

	// Stretch the base delay so the deadline lands inside the first wait.
	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := DoWithRetry(ctx, ts.Client(), headRequest(t, ts.URL), 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
