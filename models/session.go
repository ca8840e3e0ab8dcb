package models

import "time"

// Session is the server-side record of an authenticated browser session.
// Sessions live in Redis under a key derived from ID and expire with the
// store's TTL; the cookie handed to the client carries only the ID.
type Session struct {
	// ID is the opaque session identifier: 32 random bytes, hex encoded.
	// It is the only value exposed to the client.
	ID string `json:"id"`

	// UserID is the account the session is bound to.
	UserID int64 `json:"user_id"`

	// Email is the identity key of the account at bind time. Profile
	// updates that change the email rotate the session so this value
	// always reflects the current identity.
	Email string `json:"email"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the session stops being honoured even if the
	// Redis key survives.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
