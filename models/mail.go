package models

import "time"

// MailStatus is the delivery state of an outbox message.
type MailStatus string

const (
	// MailStatusPending marks a message waiting for its (next) delivery
	// attempt.
	MailStatusPending MailStatus = "pending"

	// MailStatusSent marks a message the provider accepted.
	MailStatusSent MailStatus = "sent"

	// MailStatusFailed marks a message that exhausted its attempts.
	MailStatusFailed MailStatus = "failed"
)

// MailMessage is a row of the transactional mail outbox. The registration
// flow enqueues messages synchronously; the dispatcher worker delivers them
// in the background with retries, so transient provider failures never
// surface into request handling.
type MailMessage struct {
	// ID is the ULID assigned at enqueue time.
	ID string `json:"id"`

	// UserID is the account the message concerns. Used for cleanup when
	// the account is deleted.
	UserID int64 `json:"user_id"`

	// To is the recipient address.
	To string `json:"to"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Body is the plain-text message body.
	Body string `json:"body"`

	// Status is the current delivery state.
	Status MailStatus `json:"status"`

	// Attempts counts delivery attempts made so far.
	Attempts int `json:"attempts"`

	// NextAttemptAt is when the dispatcher should try (again).
	NextAttemptAt time.Time `json:"next_attempt_at"`

	// CreatedAt is when the message was enqueued.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the delivery state last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the MailMessage model.
func (m MailMessage) TableName() string {
	return "mail_outbox"
}
