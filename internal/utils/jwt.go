package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateInviteToken creates a signed HMAC-SHA256 invite token with the
// given parameters.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the invite
//   - Subject   (sub): the invited email address
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Parameters:
//
//	issuer        - identifier of the token issuer (e.g. service name)
//	email         - address the invite is issued to
//	tokenDuration - how long the invite remains valid
//	signKey       - secret key used to sign the token with HMAC-SHA256
//
// Returns:
//
//	models.InviteToken - contains the signed token string and the jwt.Token object
//	error              - non-nil if parameters are invalid or signing fails
//
// Example usage:
//
//	token, err := utils.GenerateInviteToken("accountd", "new@example.com", 72*time.Hour, "secret")
func GenerateInviteToken(issuer, email string, tokenDuration time.Duration, signKey string) (models.InviteToken, error) {
	if issuer == "" || email == "" || tokenDuration == 0 || signKey == "" {
		return models.InviteToken{}, errors.New("invalid params for generating invite token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.InviteToken{}, fmt.Errorf("error occurred during signing invite token: %w", err)
	}

	return models.InviteToken{Token: token, SignedString: tokenString, Email: email}, nil
}

// ValidateAndParseInviteToken validates the given invite token string and
// extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence as the invited email address
//
// Parameters:
//
//	tokenString  - the raw signed token string to validate and parse
//	tokenSignKey - secret key used to verify the token signature
//	tokenIssuer  - expected issuer value to validate against the iss claim
//
// Returns:
//
//	models.InviteToken - contains the parsed jwt.Token object and the invited email
//	error              - non-nil if validation fails or claims are missing
//
// Example usage:
//
//	token, err := utils.ValidateAndParseInviteToken(rawToken, "secret", "accountd")
//	if err != nil {
//	    // handle invalid or expired invite
//	}
func ValidateAndParseInviteToken(tokenString, tokenSignKey, tokenIssuer string) (models.InviteToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.InviteToken{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.InviteToken{}, fmt.Errorf("error occurred validating and parsing invite token: %w", err)
	}

	email, err := token.Claims.GetSubject()
	if err != nil {
		return models.InviteToken{}, fmt.Errorf("error occurred during getting subject from invite token: %w", err)
	}
	if email == "" {
		return models.InviteToken{}, errors.New("empty subject error")
	}

	return models.InviteToken{Token: token, Email: email}, err
}
