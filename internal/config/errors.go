package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing secret key or an unknown edition).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty database DSN or missing Redis URL).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings
	// (for example, missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSignupConfigs indicates invalid registration-flow settings
	// (for example, a non-positive minimum password length, or invites
	// enabled without a signing key).
	ErrInvalidSignupConfigs = errors.New("invalid signup configuration")
	// ErrInvalidCaptchaConfigs indicates the CAPTCHA check is enabled but
	// the verification endpoint or secret is missing.
	ErrInvalidCaptchaConfigs = errors.New("invalid captcha configuration")
	// ErrInvalidMailConfigs indicates a mail provider URL is configured
	// without the credentials or sender address it needs.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
)
