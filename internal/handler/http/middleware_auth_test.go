package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

// ─────────────────────────────────────────────
// auth middleware
// ─────────────────────────────────────────────

// nextSpy is a downstream handler recording whether it was reached.
type nextSpy struct {
	called bool
	fn     func(w http.ResponseWriter, r *http.Request)
}

func (s *nextSpy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.called = true
	if s.fn != nil {
		s.fn(w, r)
	}
}

// TestAuth_NoCookie verifies that a request without a session cookie is
// rejected with 401 before reaching the handler.
func TestAuth_NoCookie(t *testing.T) {
	h, _ := newTestHandler(t)
	next := &nextSpy{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

// TestAuth_UnknownSession verifies that a cookie naming a dead session is
// rejected with 401 and the stale cookie cleared.
func TestAuth_UnknownSession(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.sessions.getFn = func(_ context.Context, _ string) (models.Session, error) {
		return models.Session{}, session.ErrNoSessionWasFound
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "expired-session"})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

// TestAuth_SessionLookupFailure verifies that an unreachable session store
// answers 500, not 401: the caller's session may well be valid.
func TestAuth_SessionLookupFailure(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.sessions.getFn = func(_ context.Context, _ string) (models.Session, error) {
		return models.Session{}, errors.New("redis is down")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "live-session"})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, next.called)
	assert.Nil(t, findCookie(rec, testCookieName))
}

// TestAuth_OrphanedSession verifies that a session pointing at a deleted
// account is destroyed, its cookie cleared and the request rejected.
func TestAuth_OrphanedSession(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.sessions.getFn = func(_ context.Context, sessionID string) (models.Session, error) {
		return models.Session{ID: sessionID, UserID: 7, Email: "gone@example.com"}, nil
	}
	m.users.findByIDFn = func(_ context.Context, _ int64) (models.User, error) {
		return models.User{}, store.ErrNoUserWasFound
	}

	var destroyed string
	m.sessions.destroyFn = func(_ context.Context, sessionID string) error {
		destroyed = sessionID
		return nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "orphaned-session"})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
	assert.Equal(t, "orphaned-session", destroyed)

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

// TestAuth_UserLookupFailure verifies that an unreachable user repository
// answers 500 and leaves both the session and the cookie alone.
func TestAuth_UserLookupFailure(t *testing.T) {
	h, m := newTestHandler(t)
	next := &nextSpy{}

	m.sessions.getFn = func(_ context.Context, sessionID string) (models.Session, error) {
		return models.Session{ID: sessionID, UserID: 7}, nil
	}
	m.users.findByIDFn = func(_ context.Context, _ int64) (models.User, error) {
		return models.User{}, errors.New("database is down")
	}
	m.sessions.destroyFn = func(_ context.Context, _ string) error {
		t.Fatal("Destroy must not be called on a lookup failure")
		return nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "live-session"})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, next.called)
	assert.Nil(t, findCookie(rec, testCookieName))
}

// TestAuth_Success verifies that a live session and its owner end up in the
// request context for the downstream handler.
func TestAuth_Success(t *testing.T) {
	h, m := newTestHandler(t)

	m.sessions.getFn = func(_ context.Context, sessionID string) (models.Session, error) {
		return models.Session{ID: sessionID, UserID: testUser.UserID, Email: testUser.Email}, nil
	}
	m.users.findByIDFn = func(_ context.Context, userID int64) (models.User, error) {
		require.Equal(t, testUser.UserID, userID)
		return testUser, nil
	}

	next := &nextSpy{fn: func(w http.ResponseWriter, r *http.Request) {
		current, ok := utils.GetSessionFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "live-session", current.ID)

		user, ok := utils.GetUserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, testUser.Email, user.Email)

		w.WriteHeader(http.StatusOK)
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "live-session"})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
}
