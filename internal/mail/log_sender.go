package mail

import (
	"context"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
)

// LogSender writes outgoing mail to the log instead of a provider, so
// development setups without provider credentials still see confirmation
// links.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, msg models.MailMessage) error {
	s.logger.Info().
		Str("mail_id", msg.ID).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("outgoing mail (log sender)")

	return nil
}
