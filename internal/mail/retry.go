package mail

import (
	"math/rand"
	"time"
)

// Retry delays for exponential backoff.
// Attempt 1: 1 min, attempt 2: 5 min, attempt 3: 30 min,
// attempt 4: 2 hours, attempt 5: 12 hours.
var retryDelays = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	30 * time.Minute,
	2 * time.Hour,
	12 * time.Hour,
}

const (
	// MaxAttempts is the delivery attempt ceiling; once reached the message
	// is marked failed and never retried again.
	MaxAttempts = 5

	// jitterFactor is the ±percentage of jitter applied to delays.
	jitterFactor = 0.2
)

// nextRetryDelay calculates the next retry delay with exponential backoff
// plus jitter. attempts counts failed attempts so far, starting at 1.
func nextRetryDelay(attempts int) time.Duration {
	idx := attempts - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(retryDelays) {
		idx = len(retryDelays) - 1
	}

	base := retryDelays[idx]

	// ±20% jitter to prevent thundering herd
	jitterRange := float64(base) * jitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// nextRetryAt calculates the wall-clock time of the next delivery attempt.
func nextRetryAt(attempts int) time.Time {
	return time.Now().Add(nextRetryDelay(attempts))
}
