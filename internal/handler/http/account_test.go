package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/models"
)

// ─────────────────────────────────────────────
// GET /account
// ─────────────────────────────────────────────

// TestShowAccount_Success verifies that the profile endpoint answers with
// the authenticated user and never leaks the password hash.
func TestShowAccount_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	user := testUser
	req := authedRequest(http.MethodGet, "/api/v1/account", nil, &user)
	rec := httptest.NewRecorder()
	h.showAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var got models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, testUser.Email, got.Email)
	assert.Equal(t, testUser.Name, got.Name)
}

// TestShowAccount_NoUserInContext verifies that a request that somehow
// bypassed the auth middleware answers 401.
func TestShowAccount_NoUserInContext(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	rec := httptest.NewRecorder()
	h.showAccount(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// GET /account/edit
// ─────────────────────────────────────────────

// TestEditAccount_PrefilledChangeRequest verifies that the edit-form
// endpoint answers with a change request pre-filled from the current
// profile.
func TestEditAccount_PrefilledChangeRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	user := testUser
	req := authedRequest(http.MethodGet, "/api/v1/account/edit", nil, &user)
	rec := httptest.NewRecorder()
	h.editAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cr models.ChangeRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cr))
	assert.Equal(t, testUser.Email, cr.Email)
	assert.Equal(t, testUser.Name, cr.Name)
	assert.Empty(t, cr.Errors)
}

// ─────────────────────────────────────────────
// PUT /account
// ─────────────────────────────────────────────

// TestUpdateAccount_Success verifies that a profile update reaches the
// service with the authenticated user and the decoded params, and that a
// rotated session replaces the browser cookie.
func TestUpdateAccount_Success(t *testing.T) {
	h, m := newTestHandler(t)

	var (
		gotUser   models.User
		gotParams models.UpdateParams
	)
	m.registration.updateFn = func(_ context.Context, user models.User, params models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
		gotUser = user
		gotParams = params
		return models.RegistrationResult{
			User:       user,
			LoggedIn:   true,
			Session:    &models.Session{ID: "rotated-session", UserID: user.UserID, Email: user.Email},
			RedirectTo: "/account",
		}, nil, nil
	}

	user := testUser
	newName := "Johnny Doe"
	body := jsonBody(t, models.UpdateParams{User: models.UpdateUserParams{Name: &newName}})
	req := authedRequest(http.MethodPut, "/api/v1/account", body, &user)
	rec := httptest.NewRecorder()
	h.updateAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUser.UserID, gotUser.UserID)
	require.NotNil(t, gotParams.User.Name)
	assert.Equal(t, "Johnny Doe", *gotParams.User.Name)

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "rotated-session", cookie.Value)

	var result models.RegistrationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "/account", result.RedirectTo)
}

// TestUpdateAccount_NothingChanged verifies that a no-op update answers 200
// without touching the browser cookie.
func TestUpdateAccount_NothingChanged(t *testing.T) {
	h, m := newTestHandler(t)

	m.registration.updateFn = func(_ context.Context, user models.User, _ models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
		return models.RegistrationResult{User: user, RedirectTo: "/account"}, nil, nil
	}

	user := testUser
	req := authedRequest(http.MethodPut, "/api/v1/account", jsonBody(t, models.UpdateParams{}), &user)
	rec := httptest.NewRecorder()
	h.updateAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, findCookie(rec, testCookieName))
}

// TestUpdateAccount_ValidationFailure verifies that a rejected update
// answers 422 with the echoing change request and leaves the cookie alone.
func TestUpdateAccount_ValidationFailure(t *testing.T) {
	h, m := newTestHandler(t)

	m.registration.updateFn = func(_ context.Context, _ models.User, _ models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
		cr := models.NewChangeRequest()
		cr.Email = "not-an-email"
		cr.AddError("email", "is invalid")
		return models.RegistrationResult{}, cr, service.ErrValidationFailed
	}

	user := testUser
	req := authedRequest(http.MethodPut, "/api/v1/account", jsonBody(t, models.UpdateParams{}), &user)
	rec := httptest.NewRecorder()
	h.updateAccount(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, findCookie(rec, testCookieName))

	var failure models.ValidationFailure
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&failure))
	assert.Equal(t, "not-an-email", failure.ChangeRequest.Email)
	assert.Contains(t, failure.ChangeRequest.FieldErrors("email"), "is invalid")
}

// TestUpdateAccount_InvalidJSON verifies that a malformed body answers 400
// before the service is reached.
func TestUpdateAccount_InvalidJSON(t *testing.T) {
	h, m := newTestHandler(t)

	m.registration.updateFn = func(_ context.Context, _ models.User, _ models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
		t.Fatal("Update must not be called on a malformed body")
		return models.RegistrationResult{}, nil, nil
	}

	user := testUser
	req := authedRequest(http.MethodPut, "/api/v1/account", strings.NewReader("{not json"), &user)
	rec := httptest.NewRecorder()
	h.updateAccount(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// DELETE /account
// ─────────────────────────────────────────────

// TestDeleteAccount_Success verifies that a deleted account gets its cookie
// cleared and a notice pointing home.
func TestDeleteAccount_Success(t *testing.T) {
	h, m := newTestHandler(t)

	var gotUser models.User
	m.registration.deleteFn = func(_ context.Context, user models.User) error {
		gotUser = user
		return nil
	}

	user := testUser
	req := authedRequest(http.MethodDelete, "/api/v1/account", nil, &user)
	rec := httptest.NewRecorder()
	h.deleteAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUser.UserID, gotUser.UserID)

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	var notice models.Notice
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notice))
	assert.Equal(t, "Your account has been deleted.", notice.Notice)
	assert.Equal(t, "/", notice.RedirectTo)
}

// TestDeleteAccount_DeleterFailure verifies that a failed deletion answers
// 502 and still clears the cookie: the sessions are already destroyed at
// that point.
func TestDeleteAccount_DeleterFailure(t *testing.T) {
	h, m := newTestHandler(t)

	m.registration.deleteFn = func(_ context.Context, _ models.User) error {
		return service.ErrDeletionFailed
	}

	user := testUser
	req := authedRequest(http.MethodDelete, "/api/v1/account", nil, &user)
	rec := httptest.NewRecorder()
	h.deleteAccount(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

// TestDeleteAccount_SessionDestroyFailure verifies that a failure before the
// deletion step answers 500 and leaves the cookie alone — the sessions may
// still be alive.
func TestDeleteAccount_SessionDestroyFailure(t *testing.T) {
	h, m := newTestHandler(t)

	m.registration.deleteFn = func(_ context.Context, _ models.User) error {
		return errors.New("redis is down")
	}

	user := testUser
	req := authedRequest(http.MethodDelete, "/api/v1/account", nil, &user)
	rec := httptest.NewRecorder()
	h.deleteAccount(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, findCookie(rec, testCookieName))
}
