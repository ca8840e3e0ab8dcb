package store

import (
	"context"
	"time"

	"github.com/abelyaev/accountd/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the persistence boundary for user accounts.
// Implementations map database failure modes onto the sentinel errors
// declared in this package; callers match them with errors.Is.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByConfirmationDigest(ctx context.Context, digest string) (models.User, error)
	ConfirmUser(ctx context.Context, userID int64, confirmedAt time.Time) (models.User, error)
}

// InviteRepository is the persistence boundary for registration invites.
type InviteRepository interface {
	CreateInvite(ctx context.Context, invite models.Invite) (models.Invite, error)
	FindPendingInviteByEmail(ctx context.Context, email string) (models.Invite, error)
	AcceptInvite(ctx context.Context, inviteID int64, acceptedAt time.Time) error
}

// OutboxRepository is the persistence boundary for the transactional mail
// outbox consumed by the background dispatcher.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg models.MailMessage) (models.MailMessage, error)
	PendingBatch(ctx context.Context, now time.Time, limit uint64) ([]models.MailMessage, error)
	MarkSent(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
	DeletePendingForUser(ctx context.Context, userID int64) (int64, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. See [PostgresErrorClassifier] for the PostgreSQL implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
