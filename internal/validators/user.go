// Package validators builds change requests from raw form input, enforcing
// the field-level constraints of the account schema. Validators never touch
// storage: a change request that comes back clean is the services layer's
// licence to persist, and one that carries errors is rendered straight back
// to the client.
package validators

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
)

const (
	// maxEmailLength caps addresses at the RFC 5321 path limit.
	maxEmailLength = 254

	// maxPasswordLength matches the bcrypt input limit: bytes past 72 are
	// silently ignored by the hash, so longer passwords are a lie to the user.
	maxPasswordLength = 72

	maxNameLength = 100
)

// UserValidator enforces the account field constraints.
type UserValidator struct {
	logger            *logger.Logger
	minPasswordLength int
}

// NewUserValidator constructs a [UserValidator] from the signup
// configuration.
func NewUserValidator(cfg config.Signup, logger *logger.Logger) *UserValidator {
	logger.Debug().Msg("creating user validator")

	return &UserValidator{
		logger:            logger,
		minPasswordLength: cfg.MinPasswordLength,
	}
}

// NormalizeEmail lowercases and trims an address so that lookups and the
// unique index always see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignup builds the change request for a new account. All three
// fields are checked; email and name are normalized before validation.
func (v *UserValidator) ValidateSignup(params models.SignupUserParams) *models.ChangeRequest {
	cr := models.NewChangeRequest()
	cr.Email = NormalizeEmail(params.Email)
	cr.Name = strings.TrimSpace(params.Name)
	cr.Password = params.Password

	v.validateEmail(cr)
	v.validatePassword(cr)
	v.validateName(cr)

	return cr
}

// ValidateUpdate builds the change request for changes to an existing
// account. Only fields present in params are validated; absent fields carry
// the user's current values through unchanged, and an absent password leaves
// cr.Password empty.
func (v *UserValidator) ValidateUpdate(user models.User, params models.UpdateUserParams) *models.ChangeRequest {
	cr := models.NewChangeRequest()

	cr.Email = user.Email
	if params.Email != nil {
		cr.Email = NormalizeEmail(*params.Email)
		v.validateEmail(cr)
	}

	cr.Name = user.Name
	if params.Name != nil {
		cr.Name = strings.TrimSpace(*params.Name)
		v.validateName(cr)
	}

	if params.Password != nil {
		cr.Password = *params.Password
		v.validatePassword(cr)
	}

	return cr
}

func (v *UserValidator) validateEmail(cr *models.ChangeRequest) {
	if cr.Email == "" {
		cr.AddError("email", "can't be blank")
		return
	}
	if len(cr.Email) > maxEmailLength {
		cr.AddError("email", fmt.Sprintf("is too long (maximum is %d characters)", maxEmailLength))
		return
	}

	// ParseAddress accepts "Display Name <user@host>" forms; requiring the
	// parsed address to round-trip rejects anything but a bare address.
	addr, err := mail.ParseAddress(cr.Email)
	if err != nil || addr.Address != cr.Email {
		cr.AddError("email", "is invalid")
	}
}

func (v *UserValidator) validatePassword(cr *models.ChangeRequest) {
	if cr.Password == "" {
		cr.AddError("password", "can't be blank")
		return
	}
	if len(cr.Password) < v.minPasswordLength {
		cr.AddError("password", fmt.Sprintf("is too short (minimum is %d characters)", v.minPasswordLength))
	}
	if len(cr.Password) > maxPasswordLength {
		cr.AddError("password", fmt.Sprintf("is too long (maximum is %d characters)", maxPasswordLength))
	}
}

func (v *UserValidator) validateName(cr *models.ChangeRequest) {
	if len(cr.Name) > maxNameLength {
		cr.AddError("name", fmt.Sprintf("is too long (maximum is %d characters)", maxNameLength))
	}
}
