package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/models"
)

// deletionService is the concrete implementation of Deleter. Removing an
// account drops its not-yet-delivered mail and then the row itself; invites
// referencing the account as inviter are detached by the schema.
type deletionService struct {
	// userRepository is the data-access layer for user rows.
	userRepository store.UserRepository

	// outbox holds the queued mail to drop alongside the account.
	outbox store.OutboxRepository

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewDeletionService constructs a Deleter wired to the given repositories.
func NewDeletionService(userRepository store.UserRepository, outbox store.OutboxRepository, logger *logger.Logger) Deleter {
	return &deletionService{
		userRepository: userRepository,
		outbox:         outbox,
		logger:         logger,
	}
}

// DeleteAccount removes the account and its dependent persisted state.
// Deleting an account that is already gone succeeds.
func (d *deletionService) DeleteAccount(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	dropped, err := d.outbox.DeletePendingForUser(ctx, user.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("removing queued mail failed")
		return fmt.Errorf("removing queued mail: %w", err)
	}

	if err := d.userRepository.DeleteUser(ctx, user.UserID); err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return nil
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("deleting user failed")
		return fmt.Errorf("deleting user: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Int64("queued_mail_dropped", dropped).Msg("account deleted")

	return nil
}
