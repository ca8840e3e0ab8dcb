package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// InviteToken wraps a signed invite token with convenience accessors for the
// registration flow.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// SignedString holds the compact serialized form of the token (header.payload.signature)
// ready to be embedded in an invitation link.
//
// Email is a cached copy of the "sub" (subject) claim: the address the invite
// was issued to. It is populated after a successful parse and avoids repeated
// claim lookups.
type InviteToken struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	// Excluded from JSON serialization; use [InviteToken.String] to retrieve it.
	SignedString string `json:"-"`

	// Email is the invited address extracted from the "sub" claim.
	// Excluded from JSON serialization; it is an internal server-side cache.
	Email string `json:"-"`
}

// GetEmail extracts the invited address from the token's "sub" (subject)
// claim and returns the result.
//
// Returns an error if the subject claim is missing or empty.
func (t *InviteToken) GetEmail() (string, error) {
	email, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting email from invite token: %w", err)
	}

	return email, nil
}

// String returns the compact JWS serialization of the token
// (the signed, base64url-encoded header.payload.signature string).
// It implements the [fmt.Stringer] interface.
func (t *InviteToken) String() string {
	return t.SignedString
}
