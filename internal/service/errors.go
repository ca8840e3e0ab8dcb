package service

import "errors"

var (
	// ErrValidationFailed accompanies a non-nil ChangeRequest returned from
	// Create or Update: the submission was rejected and nothing was
	// persisted. The change request carries the per-field messages.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidCredentials is returned by Login when the email is unknown
	// or the password does not match. The two cases are deliberately not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnconfirmedAccount is returned by Login when the account has not
	// confirmed its address and the unconfirmed-access window has closed.
	ErrUnconfirmedAccount = errors.New("account is not confirmed yet")

	// ErrConfirmationTokenInvalid is returned by Confirm when the token
	// matches no outstanding confirmation digest.
	ErrConfirmationTokenInvalid = errors.New("confirmation token is invalid")

	// ErrConfirmationTokenExpired is returned by Confirm when the token is
	// known but was issued longer ago than the configured confirmation TTL.
	ErrConfirmationTokenExpired = errors.New("confirmation token is expired")

	// ErrDeletionFailed wraps a failure of the account-deletion step. The
	// caller's sessions are already destroyed by the time it is returned.
	ErrDeletionFailed = errors.New("account deletion failed")
)
