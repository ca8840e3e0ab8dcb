package models

import "time"

// User represents an account entity managed by the registration flows.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// Assigned by the database on creation.
	UserID int64 `json:"id"`

	// Email is the unique identity key of the account.
	// Stored lowercased; changing it requires re-confirmation when
	// confirmation is enabled.
	Email string `json:"email"`

	// Name is the display name of the user.
	// It is non-sensitive and may be shown in UI.
	Name string `json:"name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// Never exposed via JSON and never logged.
	PasswordHash string `json:"-"`

	// ConfirmedAt is the timestamp when the user confirmed their email
	// address. Nil while the account is unconfirmed.
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	// ConfirmationDigest is the HMAC-SHA256 digest of the outstanding
	// confirmation token. Empty once the account is confirmed.
	// Never exposed via JSON.
	ConfirmationDigest string `json:"-"`

	// ConfirmationSentAt records when the outstanding confirmation token
	// was issued. Used to enforce token expiry.
	ConfirmationSentAt *time.Time `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	// Also anchors the unconfirmed-access window.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last profile modification.
	UpdatedAt time.Time `json:"updated_at"`
}

// Confirmed reports whether the user has confirmed their email address.
func (u User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// WithinUnconfirmedWindow reports whether an unconfirmed user may still be
// granted a session: true while now is before CreatedAt plus the configured
// grace period. A zero grace period means unconfirmed access is disabled.
func (u User) WithinUnconfirmedWindow(now time.Time, grace time.Duration) bool {
	if u.Confirmed() {
		return true
	}
	if grace == 0 {
		return false
	}
	return now.Before(u.CreatedAt.Add(grace))
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate carries a partial profile update. Only non-nil fields are
// written to the database.
type UserUpdate struct {
	// UserID identifies the row to update. Required.
	UserID int64 `json:"-"`

	// Email replaces the account's identity key when non-nil.
	Email *string `json:"email,omitempty"`

	// Name replaces the display name when non-nil.
	Name *string `json:"name,omitempty"`

	// PasswordHash replaces the stored credential when non-nil.
	// Must already be hashed by the caller.
	PasswordHash *string `json:"-"`

	// ClearConfirmation resets ConfirmedAt, forcing the account back into
	// the unconfirmed state. Set when the email changes and confirmation
	// is required.
	ClearConfirmation bool `json:"-"`

	// ConfirmationDigest installs a new outstanding confirmation digest
	// when non-nil. Paired with ConfirmationSentAt.
	ConfirmationDigest *string `json:"-"`

	// ConfirmationSentAt records when the new confirmation token was
	// issued. Paired with ConfirmationDigest.
	ConfirmationSentAt *time.Time `json:"-"`
}

// Empty reports whether the update carries no field changes at all.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil && u.PasswordHash == nil &&
		!u.ClearConfirmation && u.ConfirmationDigest == nil && u.ConfirmationSentAt == nil
}
