package service

import (
	"context"

	"github.com/abelyaev/accountd/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RegistrationService orchestrates the account lifecycle: creation with
// optional CAPTCHA, invite redemption and confirmation dispatch; partial
// profile updates with session identity rotation; account deletion.
//
// Create and Update return a three-way outcome:
//   - (result, nil, nil) — persisted; the result says whether a session was
//     bound and where the front end should navigate;
//   - (zero, changeRequest, ErrValidationFailed) — rejected; the change
//     request echoes the submitted values plus per-field errors and nothing
//     was persisted;
//   - (zero, nil, err) — an infrastructure failure before any outcome.
type RegistrationService interface {
	Create(ctx context.Context, params models.SignupParams, remoteAddr string) (models.RegistrationResult, *models.ChangeRequest, error)
	Update(ctx context.Context, user models.User, params models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error)
	Delete(ctx context.Context, user models.User) error
}

// AuthService authenticates credentials and manages the resulting sessions.
type AuthService interface {
	Login(ctx context.Context, params models.LoginParams) (models.User, models.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// ConfirmationService owns the email-confirmation token lifecycle. Issue
// mints a token pair; the caller persists the digest alongside the user row
// and then hands the plain token to Dispatch, which enqueues the
// confirmation email. Confirm redeems a token clicked from such an email.
type ConfirmationService interface {
	Issue() (token, digest string)
	Dispatch(ctx context.Context, user models.User, token string)
	Confirm(ctx context.Context, token string) (models.User, error)
}

// InviteService redeems a pending invite matching a freshly registered
// account. Acceptance is best-effort: failures are logged and never affect
// the registration outcome.
type InviteService interface {
	Accept(ctx context.Context, user models.User, inviteToken string)
}

// Deleter removes an account and its dependent persisted state. The caller
// is responsible for destroying the user's sessions beforehand.
type Deleter interface {
	DeleteAccount(ctx context.Context, user models.User) error
}

// SessionManager is the server-side session boundary used by the services
// and the authentication middleware. Implemented by the Redis-backed
// session manager.
type SessionManager interface {
	Create(ctx context.Context, user models.User) (models.Session, error)
	Get(ctx context.Context, sessionID string) (models.Session, error)
	Destroy(ctx context.Context, sessionID string) error
	DestroyAllForUser(ctx context.Context, userID int64) error
	Rotate(ctx context.Context, user models.User) (models.Session, error)
}

// Validator builds change requests from raw submissions, enforcing the
// field-level account schema.
type Validator interface {
	ValidateSignup(params models.SignupUserParams) *models.ChangeRequest
	ValidateUpdate(user models.User, params models.UpdateUserParams) *models.ChangeRequest
}
