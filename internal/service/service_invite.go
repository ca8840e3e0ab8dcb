package service

import (
	"context"
	"errors"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/internal/validators"
	"github.com/abelyaev/accountd/models"
)

// inviteService is the concrete implementation of InviteService. Redemption
// never influences the registration outcome: every failure path logs and
// returns.
type inviteService struct {
	// inviteRepository is the data-access layer for invite rows.
	inviteRepository store.InviteRepository

	// signKey verifies the HS256 signature of supplied invite tokens.
	signKey string

	// issuer is the "iss" claim a supplied invite token must carry.
	issuer string

	// enabled is false when invites are switched off or the service runs
	// as the hosted edition, which manages membership elsewhere.
	enabled bool

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewInviteService constructs an InviteService configured from the app and
// signup sections. Under the hosted edition the service is inert.
func NewInviteService(inviteRepository store.InviteRepository, app config.App, signup config.Signup, logger *logger.Logger) InviteService {
	return &inviteService{
		inviteRepository: inviteRepository,
		signKey:          app.InviteSignKey,
		issuer:           app.InviteIssuer,
		enabled:          signup.InvitesEnabled && app.Edition != config.EditionHosted,
		logger:           logger,
	}
}

// Accept redeems the pending invite matching the new account.
//
// When a signed invite token accompanies the registration, its subject
// claim names the invited address and the lookup uses that; an invalid
// token is logged and ignored, falling back to the registered email. The
// oldest pending invite for the address is marked accepted. No outcome of
// this method is an error for the caller.
func (i *inviteService) Accept(ctx context.Context, user models.User, inviteToken string) {
	log := logger.FromContext(ctx)

	if !i.enabled {
		return
	}

	email := user.Email
	if inviteToken != "" {
		parsed, err := utils.ValidateAndParseInviteToken(inviteToken, i.signKey, i.issuer)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", user.UserID).Msg("invalid invite token ignored")
		} else if parsed.Email != "" {
			email = validators.NormalizeEmail(parsed.Email)
		}
	}

	invite, err := i.inviteRepository.FindPendingInviteByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoInviteWasFound) {
			log.Debug().Str("email", email).Msg("no pending invite to accept")
			return
		}
		log.Warn().Err(err).Str("email", email).Msg("invite lookup failed")
		return
	}

	if err := i.inviteRepository.AcceptInvite(ctx, invite.ID, time.Now()); err != nil {
		log.Warn().Err(err).Int64("invite_id", invite.ID).Msg("invite acceptance failed")
		return
	}

	log.Info().Int64("invite_id", invite.ID).Int64("user_id", user.UserID).Msg("invite accepted")
}
