// Package mail composes and delivers outgoing account email. Messages are
// never sent inline with a request: the services layer stages them in the
// database outbox and the [Dispatcher] drains that outbox in the background,
// retrying transient provider failures with backoff. Delivery itself goes
// through the [Sender] interface, backed either by an HTTP mail provider or
// by the log for setups without one.
package mail

import (
	"context"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
)

// Sender delivers a single message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg models.MailMessage) error
}

// New returns the configured sender: an HTTP provider client when a
// provider URL is configured, a [LogSender] otherwise.
func New(cfg config.Mail, logger *logger.Logger) Sender {
	if cfg.ProviderURL == "" {
		logger.Debug().Msg("no mail provider configured, using log sender")
		return NewLogSender(logger)
	}
	return NewProviderSender(cfg, logger)
}
