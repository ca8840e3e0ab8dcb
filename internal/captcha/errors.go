package captcha

import "errors"

var (
	// ErrCaptchaRejected is returned when the provider judged the token
	// invalid, expired, or missing. The submission is treated as not human.
	ErrCaptchaRejected = errors.New("captcha verification rejected")

	// ErrCaptchaUnavailable is returned when the provider could not be
	// reached or answered with a non-OK status. Verification fails closed:
	// registration is refused rather than waved through unchecked.
	ErrCaptchaUnavailable = errors.New("captcha provider unavailable")
)
