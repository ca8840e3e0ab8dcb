package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/validators"
	"github.com/abelyaev/accountd/models"
)

// authService is the concrete implementation of AuthService. It verifies
// credentials against the stored bcrypt hash, enforces the
// unconfirmed-access window, and binds sessions through the session
// manager.
type authService struct {
	// userRepository is the data-access layer used to look up accounts.
	userRepository store.UserRepository

	// sessions creates and destroys server-side sessions.
	sessions SessionManager

	// requireConfirmation mirrors config.Signup.RequireConfirmation. When
	// false the unconfirmed-access window is never enforced.
	requireConfirmation bool

	// allowUnconfirmedFor is the grace period during which an unconfirmed
	// account may still log in, measured from account creation. Zero
	// refuses unconfirmed logins outright.
	allowUnconfirmedFor time.Duration

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repository
// and session manager, configured from cfg.
func NewAuthService(userRepository store.UserRepository, sessions SessionManager, cfg config.Signup, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:      userRepository,
		sessions:            sessions,
		requireConfirmation: cfg.RequireConfirmation,
		allowUnconfirmedFor: cfg.AllowUnconfirmedAccessFor,
		logger:              logger,
	}
}

// Login authenticates the submitted credentials and binds a session.
//
// Unknown addresses and wrong passwords both come back as
// ErrInvalidCredentials. A known account whose address is unconfirmed and
// whose unconfirmed-access window has closed is refused with
// ErrUnconfirmedAccount until it confirms.
func (a *authService) Login(ctx context.Context, params models.LoginParams) (models.User, models.Session, error) {
	log := logger.FromContext(ctx)

	email := validators.NormalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return models.User{}, models.Session{}, ErrInvalidCredentials
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, models.Session{}, ErrInvalidCredentials
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, models.Session{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		log.Warn().Int64("user_id", user.UserID).Msg("wrong password")
		return models.User{}, models.Session{}, ErrInvalidCredentials
	}

	if a.requireConfirmation && !user.WithinUnconfirmedWindow(time.Now(), a.allowUnconfirmedFor) {
		log.Warn().Int64("user_id", user.UserID).Msg("unconfirmed account refused login")
		return models.User{}, models.Session{}, ErrUnconfirmedAccount
	}

	bound, err := a.sessions.Create(ctx, user)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("session bind failed")
		return models.User{}, models.Session{}, fmt.Errorf("binding session: %w", err)
	}

	return user, bound, nil
}

// Logout destroys the session with the given id. Logging out an already
// dead session succeeds: the outcome the caller asked for is already true.
func (a *authService) Logout(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if sessionID == "" {
		return nil
	}

	if err := a.sessions.Destroy(ctx, sessionID); err != nil {
		if errors.Is(err, session.ErrNoSessionWasFound) {
			return nil
		}
		log.Err(err).Msg("session destroy failed")
		return fmt.Errorf("destroying session: %w", err)
	}

	return nil
}
