package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
)

// outboxRepository is the PostgreSQL-backed implementation of
// [OutboxRepository]. Outgoing mail is staged in the "mail_outbox" table and
// drained asynchronously by the mail dispatcher, so a slow or unavailable
// mail provider never blocks a registration request.
type outboxRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewOutboxRepository constructs an [OutboxRepository] backed by the
// provided database connection and logger.
func NewOutboxRepository(db *DB, logger *logger.Logger) OutboxRepository {
	logger.Debug().Msg("creating mail outbox repository")
	return &outboxRepository{
		db:     db,
		logger: logger,
	}
}

// scanMailRow scans one mail_outbox row in canonical column order.
func scanMailRow(row rowScanner) (models.MailMessage, error) {
	var msg models.MailMessage
	var userID sql.NullInt64

	err := row.Scan(
		&msg.ID,
		&userID,
		&msg.To,
		&msg.Subject,
		&msg.Body,
		&msg.Status,
		&msg.Attempts,
		&msg.NextAttemptAt,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return models.MailMessage{}, err
	}

	msg.UserID = userID.Int64

	return msg, nil
}

// Enqueue stages an outgoing message and returns the stored row.
func (r *outboxRepository) Enqueue(ctx context.Context, msg models.MailMessage) (models.MailMessage, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, enqueueMail,
		msg.ID, nullInt64(msg.UserID), msg.To, msg.Subject, msg.Body,
		msg.Status, msg.Attempts, msg.NextAttemptAt)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*outboxRepository.Enqueue").Msg("error executing insert")
		return models.MailMessage{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanMailRow(row)
	if err != nil {
		log.Err(err).Str("func", "*outboxRepository.Enqueue").Msg("error: scanning error")
		return models.MailMessage{}, err
	}

	return saved, nil
}

// PendingBatch returns up to limit pending messages due at or before now,
// oldest due first. An empty batch is returned as a nil slice, not an error.
func (r *outboxRepository) PendingBatch(ctx context.Context, now time.Time, limit uint64) ([]models.MailMessage, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildPendingMailQuery(now, limit)
	if err != nil {
		log.Err(err).Str("func", "*outboxRepository.PendingBatch").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*outboxRepository.PendingBatch").Msg("error executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []models.MailMessage
	for rows.Next() {
		msg, err := scanMailRow(rows)
		if err != nil {
			log.Err(err).Str("func", "*outboxRepository.PendingBatch").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*outboxRepository.PendingBatch").Msg("error: rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return messages, nil
}

// MarkSent transitions the message to the sent status.
// Returns [ErrNoMailWasFound] when the id matches no staged message.
func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.transition(ctx, "*outboxRepository.MarkSent", markMailSent, id)
}

// Reschedule bumps the attempt counter and moves the next delivery attempt
// to the given time. Returns [ErrNoMailWasFound] when the id matches no
// staged message.
func (r *outboxRepository) Reschedule(ctx context.Context, id string, nextAttemptAt time.Time) error {
	return r.transition(ctx, "*outboxRepository.Reschedule", rescheduleMail, id, nextAttemptAt)
}

// MarkFailed transitions the message to the failed status once delivery is
// abandoned. Returns [ErrNoMailWasFound] when the id matches no staged
// message.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.transition(ctx, "*outboxRepository.MarkFailed", markMailFailed, id)
}

// DeletePendingForUser removes the not-yet-delivered messages staged for a
// user and returns how many were dropped. Sent and failed rows stay behind
// as delivery history. Called when the account itself is removed.
func (r *outboxRepository) DeletePendingForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deletePendingMailForUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*outboxRepository.DeletePendingForUser").Msg("error executing delete")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// transition runs a single-row status update with the shared error mapping.
func (r *outboxRepository) transition(ctx context.Context, funcName, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error executing update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoMailWasFound
	}

	return nil
}
