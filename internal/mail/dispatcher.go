package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/models"
)

const (
	// defaultBatchSize is the number of messages to process per poll.
	defaultBatchSize = 50
	// defaultPollInterval is the time between outbox polls.
	defaultPollInterval = 5 * time.Second
)

// Dispatcher drains the mail outbox: it polls for due pending messages,
// hands them to the [Sender], and records the outcome. Transient failures
// are rescheduled with backoff; rejections and exhausted retries are marked
// failed and left in the table for inspection.
type Dispatcher struct {
	outbox       store.OutboxRepository
	sender       Sender
	classifier   store.ErrorClassificator
	logger       *logger.Logger
	batchSize    uint64
	pollInterval time.Duration
}

// NewDispatcher constructs a [Dispatcher]. The classifier decides how loudly
// storage failures are reported: transient database errors log as warnings,
// everything else as errors.
func NewDispatcher(outbox store.OutboxRepository, sender Sender, classifier store.ErrorClassificator, cfg config.Mail, logger *logger.Logger) *Dispatcher {
	logger.Debug().Msg("creating mail dispatcher")

	interval := cfg.DispatchInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Dispatcher{
		outbox:       outbox,
		sender:       sender,
		classifier:   classifier,
		logger:       logger,
		batchSize:    defaultBatchSize,
		pollInterval: interval,
	}
}

// Run starts the dispatch loop. Blocks until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().Dur("poll_interval", d.pollInterval).Msg("mail dispatcher started")

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("mail dispatcher stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := d.processOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				d.logStorageError(ctx, err, "dispatch cycle failed")
			}
		}
	}
}

// processOnce fetches and delivers one batch of due messages.
func (d *Dispatcher) processOnce(ctx context.Context) error {
	batch, err := d.outbox.PendingBatch(ctx, time.Now(), d.batchSize)
	if err != nil {
		return fmt.Errorf("load pending batch: %w", err)
	}

	for _, msg := range batch {
		d.deliver(ctx, msg)
	}

	return nil
}

// deliver attempts one message and records the outcome. Outcome-recording
// failures are logged, not returned: the message stays pending and the next
// poll picks it up again.
func (d *Dispatcher) deliver(ctx context.Context, msg models.MailMessage) {
	log := logger.FromContext(ctx)

	err := d.sender.Send(ctx, msg)
	if err == nil {
		log.Info().Str("mail_id", msg.ID).Str("to", msg.To).Msg("mail delivered")
		if err := d.outbox.MarkSent(ctx, msg.ID); err != nil {
			d.logStorageError(ctx, err, "failed to mark message sent")
		}
		return
	}

	attempts := msg.Attempts + 1

	switch {
	case errors.Is(err, ErrMessageRejected):
		log.Error().Err(err).Str("mail_id", msg.ID).Msg("mail rejected by provider")
		if err := d.outbox.MarkFailed(ctx, msg.ID); err != nil {
			d.logStorageError(ctx, err, "failed to mark message failed")
		}
	case attempts >= MaxAttempts:
		log.Error().Err(err).Str("mail_id", msg.ID).Int("attempts", attempts).Msg("mail delivery abandoned")
		if err := d.outbox.MarkFailed(ctx, msg.ID); err != nil {
			d.logStorageError(ctx, err, "failed to mark message failed")
		}
	default:
		next := nextRetryAt(attempts)
		log.Warn().Err(err).Str("mail_id", msg.ID).Int("attempt", attempts).Time("next_attempt_at", next).Msg("mail delivery failed, rescheduled")
		if err := d.outbox.Reschedule(ctx, msg.ID, next); err != nil {
			d.logStorageError(ctx, err, "failed to reschedule message")
		}
	}
}

// logStorageError picks log severity by asking the database error
// classifier whether the failure is transient.
func (d *Dispatcher) logStorageError(ctx context.Context, err error, msg string) {
	log := logger.FromContext(ctx)

	if d.classifier != nil && d.classifier.Classify(err) == store.Retryable {
		log.Warn().Err(err).Msg(msg)
		return
	}
	log.Error().Err(err).Msg(msg)
}
