package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/abelyaev/accountd/models"
)

const (
	userColumns = `id, email, name, password_hash, confirmed_at, confirmation_digest, confirmation_sent_at, created_at, updated_at`

	createUser = `INSERT INTO users (email, name, password_hash, confirmation_digest, confirmation_sent_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE id = $1;`

	findUserByConfirmationDigest = `SELECT ` + userColumns + `
    FROM users
    WHERE confirmation_digest = $1;`

	confirmUser = `UPDATE users
    SET confirmed_at = $2, confirmation_digest = NULL, confirmation_sent_at = NULL, updated_at = now()
    WHERE id = $1
    RETURNING ` + userColumns + `;`

	deleteUser = `DELETE FROM users
    WHERE id = $1;`

	createInvite = `INSERT INTO invites (email, invited_by)
    VALUES ($1, $2)
    RETURNING id, email, invited_by, accepted_at, created_at;`

	findPendingInviteByEmail = `SELECT id, email, invited_by, accepted_at, created_at
    FROM invites
    WHERE email = $1 AND accepted_at IS NULL
    ORDER BY created_at
    LIMIT 1;`

	acceptInvite = `UPDATE invites
    SET accepted_at = $2
    WHERE id = $1 AND accepted_at IS NULL;`

	enqueueMail = `INSERT INTO mail_outbox (id, user_id, recipient, subject, body, status, attempts, next_attempt_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id, user_id, recipient, subject, body, status, attempts, next_attempt_at, created_at, updated_at;`

	markMailSent = `UPDATE mail_outbox
    SET status = 'sent', updated_at = now()
    WHERE id = $1;`

	rescheduleMail = `UPDATE mail_outbox
    SET attempts = attempts + 1, next_attempt_at = $2, updated_at = now()
    WHERE id = $1;`

	markMailFailed = `UPDATE mail_outbox
    SET status = 'failed', attempts = attempts + 1, updated_at = now()
    WHERE id = $1;`

	deletePendingMailForUser = `DELETE FROM mail_outbox
    WHERE user_id = $1 AND status = 'pending';`
)

// buildUpdateUserQuery dynamically builds a partial UPDATE for the users
// table: only the fields the update actually carries end up in the SET
// clause. The query returns the full updated row via RETURNING.
func buildUpdateUserQuery(update models.UserUpdate) (string, []any, error) {
	if update.Empty() {
		return "", nil, ErrEmptyUpdate
	}

	builder := sq.Update("users").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": update.UserID}).
		Suffix("RETURNING " + userColumns).
		PlaceholderFormat(sq.Dollar)

	if update.Email != nil {
		builder = builder.Set("email", *update.Email)
	}

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}

	if update.PasswordHash != nil {
		builder = builder.Set("password_hash", *update.PasswordHash)
	}

	if update.ClearConfirmation {
		builder = builder.Set("confirmed_at", nil)
	}

	switch {
	case update.ConfirmationDigest != nil:
		builder = builder.Set("confirmation_digest", *update.ConfirmationDigest)
	case update.ClearConfirmation:
		builder = builder.Set("confirmation_digest", nil)
	}

	switch {
	case update.ConfirmationSentAt != nil:
		builder = builder.Set("confirmation_sent_at", *update.ConfirmationSentAt)
	case update.ClearConfirmation:
		builder = builder.Set("confirmation_sent_at", nil)
	}

	return builder.ToSql()
}

// buildPendingMailQuery builds the dispatcher poll query: pending messages
// whose next attempt is due, oldest due first, capped at limit.
func buildPendingMailQuery(now time.Time, limit uint64) (string, []any, error) {
	return sq.Select("id", "user_id", "recipient", "subject", "body", "status", "attempts", "next_attempt_at", "created_at", "updated_at").
		From("mail_outbox").
		Where(sq.Eq{"status": models.MailStatusPending}).
		Where(sq.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at ASC").
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
