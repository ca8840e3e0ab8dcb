package mail

import "errors"

var (
	// ErrMessageRejected is returned when the provider refused the message
	// outright (4xx). Retrying the same payload cannot succeed, so the
	// dispatcher marks the message failed on first rejection.
	ErrMessageRejected = errors.New("message rejected by provider")

	// ErrProviderUnavailable is returned when the provider could not be
	// reached or answered with a server error. The delivery is retried with
	// backoff.
	ErrProviderUnavailable = errors.New("mail provider unavailable")
)
