// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

const testCookieName = "accountd_session"

// ─────────────────────────────────────────────
// Mock collaborators
// ─────────────────────────────────────────────

// mockRegistrationService implements service.RegistrationService for unit
// tests. Each method field can be overridden per test case.
type mockRegistrationService struct {
	createFn func(ctx context.Context, params models.SignupParams, remoteAddr string) (models.RegistrationResult, *models.ChangeRequest, error)
	updateFn func(ctx context.Context, user models.User, params models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error)
	deleteFn func(ctx context.Context, user models.User) error
}

func (m *mockRegistrationService) Create(ctx context.Context, params models.SignupParams, remoteAddr string) (models.RegistrationResult, *models.ChangeRequest, error) {
	return m.createFn(ctx, params, remoteAddr)
}

func (m *mockRegistrationService) Update(ctx context.Context, user models.User, params models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
	return m.updateFn(ctx, user, params)
}

func (m *mockRegistrationService) Delete(ctx context.Context, user models.User) error {
	return m.deleteFn(ctx, user)
}

// mockAuthService implements service.AuthService for unit tests.
type mockAuthService struct {
	loginFn  func(ctx context.Context, params models.LoginParams) (models.User, models.Session, error)
	logoutFn func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) Login(ctx context.Context, params models.LoginParams) (models.User, models.Session, error) {
	return m.loginFn(ctx, params)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

// mockConfirmationService implements service.ConfirmationService for unit
// tests.
type mockConfirmationService struct {
	issueFn    func() (string, string)
	dispatchFn func(ctx context.Context, user models.User, token string)
	confirmFn  func(ctx context.Context, token string) (models.User, error)
}

func (m *mockConfirmationService) Issue() (string, string) {
	return m.issueFn()
}

func (m *mockConfirmationService) Dispatch(ctx context.Context, user models.User, token string) {
	m.dispatchFn(ctx, user, token)
}

func (m *mockConfirmationService) Confirm(ctx context.Context, token string) (models.User, error) {
	return m.confirmFn(ctx, token)
}

// mockSessionManager implements service.SessionManager for unit tests.
type mockSessionManager struct {
	createFn     func(ctx context.Context, user models.User) (models.Session, error)
	getFn        func(ctx context.Context, sessionID string) (models.Session, error)
	destroyFn    func(ctx context.Context, sessionID string) error
	destroyAllFn func(ctx context.Context, userID int64) error
	rotateFn     func(ctx context.Context, user models.User) (models.Session, error)
}

func (m *mockSessionManager) Create(ctx context.Context, user models.User) (models.Session, error) {
	return m.createFn(ctx, user)
}

func (m *mockSessionManager) Get(ctx context.Context, sessionID string) (models.Session, error) {
	return m.getFn(ctx, sessionID)
}

func (m *mockSessionManager) Destroy(ctx context.Context, sessionID string) error {
	return m.destroyFn(ctx, sessionID)
}

func (m *mockSessionManager) DestroyAllForUser(ctx context.Context, userID int64) error {
	return m.destroyAllFn(ctx, userID)
}

func (m *mockSessionManager) Rotate(ctx context.Context, user models.User) (models.Session, error) {
	return m.rotateFn(ctx, user)
}

// mockUserRepository implements store.UserRepository for unit tests. The
// auth middleware only needs FindUserByID; the remaining methods are wired
// for completeness.
type mockUserRepository struct {
	createUserFn   func(ctx context.Context, user models.User) (models.User, error)
	updateUserFn   func(ctx context.Context, update models.UserUpdate) (models.User, error)
	deleteUserFn   func(ctx context.Context, userID int64) error
	findByEmailFn  func(ctx context.Context, email string) (models.User, error)
	findByIDFn     func(ctx context.Context, userID int64) (models.User, error)
	findByDigestFn func(ctx context.Context, digest string) (models.User, error)
	confirmUserFn  func(ctx context.Context, userID int64, confirmedAt time.Time) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return m.createUserFn(ctx, user)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error) {
	return m.updateUserFn(ctx, update)
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	return m.deleteUserFn(ctx, userID)
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return m.findByIDFn(ctx, userID)
}

func (m *mockUserRepository) FindUserByConfirmationDigest(ctx context.Context, digest string) (models.User, error) {
	return m.findByDigestFn(ctx, digest)
}

func (m *mockUserRepository) ConfirmUser(ctx context.Context, userID int64, confirmedAt time.Time) (models.User, error) {
	return m.confirmUserFn(ctx, userID, confirmedAt)
}

// mockLimiter implements RateLimiter for unit tests.
type mockLimiter struct {
	allowFn func(ctx context.Context, addr string) session.ThrottleResult
}

func (m *mockLimiter) Allow(ctx context.Context, addr string) session.ThrottleResult {
	return m.allowFn(ctx, addr)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// handlerMocks bundles every mock collaborator wired into a test Handler so
// individual tests can override the method fields they exercise.
type handlerMocks struct {
	registration *mockRegistrationService
	auth         *mockAuthService
	confirmation *mockConfirmationService
	sessions     *mockSessionManager
	users        *mockUserRepository
	limiter      *mockLimiter
}

// newTestHandler builds a Handler whose collaborators all answer with inert
// defaults: the limiter allows, the session lookup misses, and the service
// methods succeed with zero values. Tests override the fields they care
// about.
func newTestHandler(t *testing.T) (*Handler, *handlerMocks) {
	t.Helper()

	m := &handlerMocks{
		registration: &mockRegistrationService{
			createFn: func(_ context.Context, _ models.SignupParams, _ string) (models.RegistrationResult, *models.ChangeRequest, error) {
				return models.RegistrationResult{}, nil, nil
			},
			updateFn: func(_ context.Context, _ models.User, _ models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
				return models.RegistrationResult{}, nil, nil
			},
			deleteFn: func(_ context.Context, _ models.User) error { return nil },
		},
		auth: &mockAuthService{
			loginFn: func(_ context.Context, _ models.LoginParams) (models.User, models.Session, error) {
				return models.User{}, models.Session{}, nil
			},
			logoutFn: func(_ context.Context, _ string) error { return nil },
		},
		confirmation: &mockConfirmationService{
			issueFn:    func() (string, string) { return "", "" },
			dispatchFn: func(_ context.Context, _ models.User, _ string) {},
			confirmFn: func(_ context.Context, _ string) (models.User, error) {
				return models.User{}, nil
			},
		},
		sessions: &mockSessionManager{
			getFn: func(_ context.Context, _ string) (models.Session, error) {
				return models.Session{}, session.ErrNoSessionWasFound
			},
			destroyFn: func(_ context.Context, _ string) error { return nil },
		},
		users: &mockUserRepository{
			findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
				return models.User{}, store.ErrNoUserWasFound
			},
		},
		limiter: &mockLimiter{
			allowFn: func(_ context.Context, _ string) session.ThrottleResult {
				return session.ThrottleResult{Allowed: true}
			},
		},
	}

	svcs := &service.Services{
		RegistrationService: m.registration,
		AuthService:         m.auth,
		ConfirmationService: m.confirmation,
	}

	cfg := config.StructuredConfig{
		App:     config.App{Version: "test-version"},
		Session: config.Session{CookieName: testCookieName, TTL: time.Hour},
	}

	return NewHandler(svcs, m.sessions, m.users, m.limiter, cfg, logger.Nop()), m
}

// jsonBody serialises v to a JSON request body reader.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

// authedRequest builds a request whose context already carries the
// authenticated user and session, as the auth middleware would have left it.
func authedRequest(method, target string, body io.Reader, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	current := &models.Session{ID: "sess-1", UserID: user.UserID, Email: user.Email}
	ctx := context.WithValue(req.Context(), utils.SessionCtxKey, current)
	ctx = context.WithValue(ctx, utils.UserCtxKey, user)
	return req.WithContext(ctx)
}

// findCookie returns the response cookie with the given name, or nil.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// testUser is a convenience fixture used across multiple tests.
var testUser = models.User{
	UserID: 7,
	Email:  "john@example.com",
	Name:   "John Doe",
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_ReturnsNonNil(t *testing.T) {
	h, _ := newTestHandler(t)

	require.NotNil(t, h)
}

func TestNewHandler_StoresCollaborators(t *testing.T) {
	h, m := newTestHandler(t)

	assert.Same(t, m.sessions, h.sessions.(*mockSessionManager))
	assert.Same(t, m.users, h.users.(*mockUserRepository))
	assert.Same(t, m.limiter, h.limiter.(*mockLimiter))
	assert.Equal(t, testCookieName, h.sessionCfg.CookieName)
	assert.Equal(t, "test-version", h.version)
}

// ─────────────────────────────────────────────
// Init — route registration
// ─────────────────────────────────────────────

func TestInit_ReturnsRouter(t *testing.T) {
	h, _ := newTestHandler(t)

	require.NotNil(t, h.Init())
}

// routeCase describes a single expected route.
type routeCase struct {
	method string
	path   string
}

// expectedRoutes lists every route that Init() must register.
var expectedRoutes = []routeCase{
	// registration
	{http.MethodGet, "/api/v1/registration/new"},
	{http.MethodPost, "/api/v1/registration"},
	// confirmation
	{http.MethodGet, "/api/v1/confirm"},
	// session
	{http.MethodPost, "/api/v1/session"},
	{http.MethodDelete, "/api/v1/session"},
	// health
	{http.MethodGet, "/api/v1/health"},
	// account (auth middleware will return 401, not 404/405)
	{http.MethodGet, "/api/v1/account"},
	{http.MethodGet, "/api/v1/account/edit"},
	{http.MethodPut, "/api/v1/account"},
	{http.MethodDelete, "/api/v1/account"},
}

func TestInit_RegistersAllRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Init()

	for _, tc := range expectedRoutes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			// A registered route returns anything except 404 (not found) or
			// 405 (method not allowed). Auth-protected routes return 401 —
			// that still proves the route exists.
			assert.NotEqual(t, http.StatusNotFound, rec.Code,
				"route not found: %s %s", tc.method, tc.path)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code,
				"method not allowed: %s %s", tc.method, tc.path)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Init()

	// Only GET is registered for /api/v1/health.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
