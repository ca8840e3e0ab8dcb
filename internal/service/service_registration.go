package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abelyaev/accountd/internal/captcha"
	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/validators"
	"github.com/abelyaev/accountd/models"
)

// Post-operation navigation targets handed back to the form layer.
const (
	// redirectRoot is the default destination after a registration that
	// bound a session.
	redirectRoot = "/"

	// redirectAlmostThere is the destination after a registration that must
	// wait for email confirmation before any session is bound.
	redirectAlmostThere = "/almost-there"

	// redirectAccount is the destination after a profile update.
	redirectAccount = "/account"
)

// registrationService is the concrete implementation of RegistrationService.
// It sequences CAPTCHA verification, schema validation, persistence, invite
// redemption, confirmation dispatch, and session binding, honouring the
// configured confirmation policy.
type registrationService struct {
	// userRepository is the data-access layer for user rows.
	userRepository store.UserRepository

	// validator builds change requests from raw submissions.
	validator Validator

	// sessions binds, rotates, and destroys server-side sessions.
	sessions SessionManager

	// verifier is the CAPTCHA collaborator consulted before any
	// registration work happens. A null verifier accepts everything.
	verifier captcha.Verifier

	// confirmations issues confirmation tokens and enqueues the emails
	// that carry them.
	confirmations ConfirmationService

	// invites redeems pending invites best-effort after registration.
	invites InviteService

	// deleter removes the account row and its dependent state.
	deleter Deleter

	// requireConfirmation mirrors config.Signup.RequireConfirmation: when
	// false no confirmation email is ever dispatched and accounts are
	// treated as implicitly confirmed.
	requireConfirmation bool

	// allowUnconfirmedFor is the grace period during which an unconfirmed
	// account may hold a session. Zero defers login until confirmation.
	allowUnconfirmedFor time.Duration

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewRegistrationService constructs a RegistrationService wired to the given
// collaborators and configured from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewRegistrationService(
	userRepository store.UserRepository,
	validator Validator,
	sessions SessionManager,
	verifier captcha.Verifier,
	confirmations ConfirmationService,
	invites InviteService,
	deleter Deleter,
	cfg config.Signup,
	logger *logger.Logger,
) RegistrationService {
	return &registrationService{
		userRepository:      userRepository,
		validator:           validator,
		sessions:            sessions,
		verifier:            verifier,
		confirmations:       confirmations,
		invites:             invites,
		deleter:             deleter,
		requireConfirmation: cfg.RequireConfirmation,
		allowUnconfirmedFor: cfg.AllowUnconfirmedAccessFor,
		logger:              logger,
	}
}

// Create registers a new account.
//
// The CAPTCHA verifier runs first: a rejected challenge refuses the
// registration before any validation or persistence, echoing the submitted
// fields back in an unsaved change request. An unreachable verifier also
// refuses the registration (fail closed) but surfaces as an infrastructure
// error instead of a validation one.
//
// When the submission validates, the password is hashed with bcrypt and the
// row is inserted; a unique-violation on the email column comes back as a
// field error on the change request, indistinguishable from any other
// validation failure. After persistence, invite redemption runs best-effort
// and, when confirmation is required, a confirmation token is issued with
// its digest stored on the row and the email enqueued.
//
// Whether the new user ends up logged in depends on the confirmation
// policy: with confirmation required and no unconfirmed-access window the
// result carries no session and points at the confirmation notice page;
// otherwise a session is bound and the result points at the root.
func (r *registrationService) Create(ctx context.Context, params models.SignupParams, remoteAddr string) (models.RegistrationResult, *models.ChangeRequest, error) {
	log := logger.FromContext(ctx)

	if err := r.verifier.Verify(ctx, params.CaptchaToken, remoteAddr); err != nil {
		if errors.Is(err, captcha.ErrCaptchaRejected) {
			log.Warn().Msg("captcha rejected, registration refused")
			cr := unsavedChangeRequest(params.User)
			cr.AddError("base", "captcha verification failed")
			return models.RegistrationResult{}, cr, ErrValidationFailed
		}
		log.Err(err).Msg("captcha verification unavailable")
		return models.RegistrationResult{}, nil, fmt.Errorf("captcha verification: %w", err)
	}

	cr := r.validator.ValidateSignup(params.User)
	if !cr.Valid() {
		return models.RegistrationResult{}, cr, ErrValidationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cr.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.RegistrationResult{}, nil, fmt.Errorf("hashing password: %w", err)
	}

	newUser := models.User{
		Email:        cr.Email,
		Name:         cr.Name,
		PasswordHash: string(hash),
	}

	// The digest is installed in the same INSERT as the row itself, so a
	// user never exists without its outstanding confirmation state.
	var confirmationToken string
	if r.requireConfirmation {
		token, digest := r.confirmations.Issue()
		now := time.Now()
		confirmationToken = token
		newUser.ConfirmationDigest = digest
		newUser.ConfirmationSentAt = &now
	}

	user, err := r.userRepository.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyTaken) {
			cr.AddError("email", "has already been taken")
			return models.RegistrationResult{}, cr, ErrValidationFailed
		}
		log.Err(err).Str("email", cr.Email).Msg("user creation ended with error")
		return models.RegistrationResult{}, nil, fmt.Errorf("user creation ended with error: %w", err)
	}

	r.invites.Accept(ctx, user, params.InviteToken)

	if r.requireConfirmation {
		r.confirmations.Dispatch(ctx, user, confirmationToken)

		if r.allowUnconfirmedFor == 0 {
			return models.RegistrationResult{
				User:       user,
				RedirectTo: redirectAlmostThere,
				Notice:     "Please check your email to confirm your account.",
			}, nil, nil
		}
	}

	session, err := r.sessions.Create(ctx, user)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("session bind after registration failed")
		return models.RegistrationResult{}, nil, fmt.Errorf("binding session: %w", err)
	}

	return models.RegistrationResult{
		User:       user,
		LoggedIn:   true,
		Session:    &session,
		RedirectTo: redirectRoot,
	}, nil, nil
}

// Update applies a partial profile change to an authenticated user.
//
// Only the submitted fields are validated and written; an update that
// changes nothing succeeds without touching the row or the caller's
// sessions. Changing the email clears the confirmed state and installs a
// fresh confirmation digest in the same UPDATE when confirmation is
// required, then enqueues the confirmation email for the new address.
//
// A successful write rotates the caller's session identity: every existing
// session is destroyed and a new one is bound under the updated user.
func (r *registrationService) Update(ctx context.Context, user models.User, params models.UpdateParams) (models.RegistrationResult, *models.ChangeRequest, error) {
	log := logger.FromContext(ctx)

	cr := r.validator.ValidateUpdate(user, params.User)
	if !cr.Valid() {
		return models.RegistrationResult{}, cr, ErrValidationFailed
	}

	update := models.UserUpdate{UserID: user.UserID}

	if params.User.Email != nil && cr.Email != user.Email {
		update.Email = &cr.Email
	}
	if params.User.Name != nil && cr.Name != user.Name {
		update.Name = &cr.Name
	}
	if params.User.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(cr.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Err(err).Msg("password hashing failed")
			return models.RegistrationResult{}, nil, fmt.Errorf("hashing password: %w", err)
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	var confirmationToken string
	if update.Email != nil && r.requireConfirmation {
		token, digest := r.confirmations.Issue()
		now := time.Now()
		confirmationToken = token
		update.ClearConfirmation = true
		update.ConfirmationDigest = &digest
		update.ConfirmationSentAt = &now
	}

	if update.Empty() {
		return models.RegistrationResult{
			User:       user,
			RedirectTo: redirectAccount,
			Notice:     "Nothing to update.",
		}, nil, nil
	}

	updated, err := r.userRepository.UpdateUser(ctx, update)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyTaken) {
			cr.AddError("email", "has already been taken")
			return models.RegistrationResult{}, cr, ErrValidationFailed
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("user update ended with error")
		return models.RegistrationResult{}, nil, fmt.Errorf("user update ended with error: %w", err)
	}

	if confirmationToken != "" {
		r.confirmations.Dispatch(ctx, updated, confirmationToken)
	}

	session, err := r.sessions.Rotate(ctx, updated)
	if err != nil {
		log.Err(err).Int64("user_id", updated.UserID).Msg("session rotation after update failed")
		return models.RegistrationResult{}, nil, fmt.Errorf("rotating session: %w", err)
	}

	return models.RegistrationResult{
		User:       updated,
		LoggedIn:   true,
		Session:    &session,
		RedirectTo: redirectAccount,
		Notice:     "Account updated.",
	}, nil, nil
}

// Delete removes the caller's account.
//
// Sessions are destroyed first, before the deleter runs and regardless of
// its outcome: once Delete has been called the caller's cookies are dead
// even when the deletion itself fails and is reported to the caller.
func (r *registrationService) Delete(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	if err := r.sessions.DestroyAllForUser(ctx, user.UserID); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("destroying sessions failed")
		return fmt.Errorf("destroying sessions: %w", err)
	}

	if err := r.deleter.DeleteAccount(ctx, user); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("account deletion failed")
		return fmt.Errorf("%w: %w", ErrDeletionFailed, err)
	}

	return nil
}

// unsavedChangeRequest echoes a submission back without validating it.
func unsavedChangeRequest(params models.SignupUserParams) *models.ChangeRequest {
	cr := models.NewChangeRequest()
	cr.Email = validators.NormalizeEmail(params.Email)
	cr.Name = strings.TrimSpace(params.Name)
	cr.Password = params.Password
	return cr
}
