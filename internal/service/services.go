package service

import (
	"github.com/abelyaev/accountd/internal/captcha"
	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/validators"
)

// Services aggregates the service layer consumed by the HTTP handlers.
type Services struct {
	RegistrationService RegistrationService
	AuthService         AuthService
	ConfirmationService ConfirmationService
}

// NewServices wires the full service layer: the registration orchestrator
// with its validator, CAPTCHA verifier, confirmation, invite, and deletion
// collaborators, plus the credential and confirmation services the session
// and confirm endpoints use directly.
func NewServices(storages store.Storages, sessions SessionManager, verifier captcha.Verifier, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	validator := validators.NewUserValidator(cfg.Signup, logger)
	confirmations := NewConfirmationService(storages.UserRepository, storages.OutboxRepository, cfg.App, cfg.Signup, logger)
	invites := NewInviteService(storages.InviteRepository, cfg.App, cfg.Signup, logger)
	deleter := NewDeletionService(storages.UserRepository, storages.OutboxRepository, logger)

	return &Services{
		RegistrationService: NewRegistrationService(storages.UserRepository, validator, sessions, verifier, confirmations, invites, deleter, cfg.Signup, logger),
		AuthService:         NewAuthService(storages.UserRepository, sessions, cfg.Signup, logger),
		ConfirmationService: confirmations,
	}
}
