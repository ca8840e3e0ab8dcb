package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/mail"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

// confirmationTokenBytes is the entropy of an issued confirmation token.
const confirmationTokenBytes = 32

// confirmationService is the concrete implementation of
// ConfirmationService. Tokens are random and leave the process only inside
// the confirmation link; the row stores their HMAC-SHA256 digest, so a
// database leak exposes nothing redeemable.
type confirmationService struct {
	// userRepository looks up accounts by digest and flips them confirmed.
	userRepository store.UserRepository

	// outbox stages the confirmation emails for the background dispatcher.
	outbox store.OutboxRepository

	// secretKey is the HMAC key digesting tokens before storage.
	secretKey string

	// baseURL is the public URL prefix of the confirmation links.
	baseURL string

	// tokenTTL is how long an issued token stays redeemable. Zero disables
	// the expiry check.
	tokenTTL time.Duration

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewConfirmationService constructs a ConfirmationService wired to the
// given repositories and configured from the app and signup sections.
func NewConfirmationService(userRepository store.UserRepository, outbox store.OutboxRepository, app config.App, signup config.Signup, logger *logger.Logger) ConfirmationService {
	return &confirmationService{
		userRepository: userRepository,
		outbox:         outbox,
		secretKey:      app.SecretKey,
		baseURL:        app.BaseURL,
		tokenTTL:       signup.ConfirmationTTL,
		logger:         logger,
	}
}

// Issue mints a fresh confirmation token and the digest under which it is
// persisted. The plain token is handed to Dispatch; only the digest ever
// touches the database.
func (c *confirmationService) Issue() (string, string) {
	buf := make([]byte, confirmationTokenBytes)
	rand.Read(buf)

	token := hex.EncodeToString(buf)
	return token, utils.HashString(token, c.secretKey)
}

// Dispatch enqueues the confirmation email carrying the token. It is
// fire-and-forget: enqueue failures are logged and swallowed so that a
// stuck outbox never fails the registration that triggered it.
func (c *confirmationService) Dispatch(ctx context.Context, user models.User, token string) {
	log := logger.FromContext(ctx)

	msg := mail.NewConfirmationMessage(user, token, c.baseURL)
	if _, err := c.outbox.Enqueue(ctx, msg); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to enqueue confirmation mail")
		return
	}

	log.Info().Int64("user_id", user.UserID).Str("to", user.Email).Msg("confirmation mail enqueued")
}

// Confirm redeems a confirmation token: it resolves the account by the
// token's digest, enforces the token TTL, and marks the account confirmed,
// clearing the outstanding digest. Redeeming a token of an account that is
// somehow already confirmed succeeds without another write.
func (c *confirmationService) Confirm(ctx context.Context, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.User{}, ErrConfirmationTokenInvalid
	}

	digest := utils.HashString(token, c.secretKey)

	user, err := c.userRepository.FindUserByConfirmationDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrConfirmationTokenInvalid
		}
		log.Err(err).Msg("confirmation digest lookup failed")
		return models.User{}, fmt.Errorf("confirmation digest lookup failed: %w", err)
	}

	if user.Confirmed() {
		return user, nil
	}

	if c.tokenTTL > 0 {
		sentAt := user.ConfirmationSentAt
		if sentAt == nil || time.Now().After(sentAt.Add(c.tokenTTL)) {
			return models.User{}, ErrConfirmationTokenExpired
		}
	}

	confirmed, err := c.userRepository.ConfirmUser(ctx, user.UserID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrConfirmationTokenInvalid
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("confirming user failed")
		return models.User{}, fmt.Errorf("confirming user: %w", err)
	}

	log.Info().Int64("user_id", confirmed.UserID).Msg("account confirmed")

	return confirmed, nil
}
