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

// inviteRepository is the PostgreSQL-backed implementation of
// [InviteRepository], tracking issued invitations in the "invites" table.
type inviteRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewInviteRepository constructs an [InviteRepository] backed by the provided
// database connection and logger.
func NewInviteRepository(db *DB, logger *logger.Logger) InviteRepository {
	logger.Debug().Msg("creating invite repository")
	return &inviteRepository{
		db:     db,
		logger: logger,
	}
}

// scanInviteRow scans one invites-table row in canonical column order.
func scanInviteRow(row rowScanner) (models.Invite, error) {
	var invite models.Invite
	var invitedBy sql.NullInt64
	var acceptedAt sql.NullTime

	err := row.Scan(
		&invite.ID,
		&invite.Email,
		&invitedBy,
		&acceptedAt,
		&invite.CreatedAt,
	)
	if err != nil {
		return models.Invite{}, err
	}

	invite.InvitedBy = invitedBy.Int64
	if acceptedAt.Valid {
		t := acceptedAt.Time
		invite.AcceptedAt = &t
	}

	return invite, nil
}

// nullInt64 converts a zero identifier to a SQL NULL so system-issued
// invites carry no inviter reference.
func nullInt64(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateInvite records a new invitation for the given address and returns
// the stored row with server-assigned fields.
func (r *inviteRepository) CreateInvite(ctx context.Context, invite models.Invite) (models.Invite, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createInvite, invite.Email, nullInt64(invite.InvitedBy))
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*inviteRepository.CreateInvite").Msg("error executing insert")
		return models.Invite{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanInviteRow(row)
	if err != nil {
		log.Err(err).Str("func", "*inviteRepository.CreateInvite").Msg("error: scanning error")
		return models.Invite{}, err
	}

	return saved, nil
}

// FindPendingInviteByEmail retrieves the oldest unaccepted invitation for
// the address. Returns [ErrNoInviteWasFound] when none is outstanding.
func (r *inviteRepository) FindPendingInviteByEmail(ctx context.Context, email string) (models.Invite, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findPendingInviteByEmail, email)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*inviteRepository.FindPendingInviteByEmail").Msg("error executing lookup")
		return models.Invite{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanInviteRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invite{}, ErrNoInviteWasFound
		}
		log.Err(err).Str("func", "*inviteRepository.FindPendingInviteByEmail").Msg("error: scanning error")
		return models.Invite{}, err
	}

	return found, nil
}

// AcceptInvite stamps the invitation accepted at the given time. Accepting
// a missing or already accepted invitation returns [ErrNoInviteWasFound].
func (r *inviteRepository) AcceptInvite(ctx context.Context, inviteID int64, acceptedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, acceptInvite, inviteID, acceptedAt)
	if err != nil {
		log.Err(err).Str("func", "*inviteRepository.AcceptInvite").Msg("error executing update")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrNoInviteWasFound
	}

	return nil
}
