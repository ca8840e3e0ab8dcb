package http

import (
	"context"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
)

// RateLimiter decides whether a client address may perform another
// registration or login attempt. Satisfied by [session.Throttle].
type RateLimiter interface {
	Allow(ctx context.Context, addr string) session.ThrottleResult
}

// Handler carries the collaborators every route handler and middleware
// needs: the service layer, the session manager for the authentication
// middleware, the user repository for resolving session owners, and the
// signup rate limiter.
type Handler struct {
	services *service.Services
	sessions service.SessionManager
	users    store.UserRepository
	limiter  RateLimiter

	sessionCfg config.Session
	version    string

	uuids  *utils.UUIDGenerator
	logger *logger.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(
	services *service.Services,
	sessions service.SessionManager,
	users store.UserRepository,
	limiter RateLimiter,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		sessions:   sessions,
		users:      users,
		limiter:    limiter,
		sessionCfg: cfg.Session,
		version:    cfg.App.Version,
		uuids:      utils.NewUUIDGenerator(),
		logger:     logger,
	}
}
