package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abelyaev/accountd/internal/session"
)

// ─────────────────────────────────────────────
// withThrottle middleware
// ─────────────────────────────────────────────

// TestWithThrottle_Allowed verifies that a permitted request reaches the
// handler and that the limiter sees the reverse proxy's client address.
func TestWithThrottle_Allowed(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	var gotAddr string
	m.limiter.allowFn = func(_ context.Context, addr string) session.ThrottleResult {
		gotAddr = addr
		return session.ThrottleResult{Allowed: true, Remaining: 4}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	h.withThrottle(next).ServeHTTP(rec, req)

	assert.True(t, next.called)
	assert.Equal(t, "203.0.113.9", gotAddr)
}

// TestWithThrottle_Refused verifies that an exhausted bucket answers 429
// with a Retry-After header naming the refill moment.
func TestWithThrottle_Refused(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.limiter.allowFn = func(_ context.Context, _ string) session.ThrottleResult {
		return session.ThrottleResult{Allowed: false, RetryAfter: 30 * time.Second}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration", nil)
	rec := httptest.NewRecorder()
	h.withThrottle(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too many attempts")
	assert.False(t, next.called)
}

// TestWithThrottle_RetryAfterClamped verifies that a sub-second refill still
// advertises at least one second: Retry-After carries whole seconds only.
func TestWithThrottle_RetryAfterClamped(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.limiter.allowFn = func(_ context.Context, _ string) session.ThrottleResult {
		return session.ThrottleResult{Allowed: false, RetryAfter: 200 * time.Millisecond}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration", nil)
	rec := httptest.NewRecorder()
	h.withThrottle(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
