package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/utils"
)

// auth is an HTTP middleware that enforces cookie-based session
// authentication.
//
// It reads the session cookie, loads the session from the session manager,
// resolves the owning user through the repository, and — on success — stores
// both in the request context under [utils.SessionCtxKey] and
// [utils.UserCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the
// following cases:
//   - No session cookie is present ([ErrNoSessionCookie]).
//   - The cookie names a session that no longer exists or has expired
//     ([ErrSessionInvalid]); the stale cookie is cleared.
//   - The session's owning account is gone, for example deleted from
//     another browser; the session is destroyed and the cookie cleared.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		sessionID, found := session.ReadCookie(r, h.sessionCfg)
		if !found {
			log.Warn().Err(ErrNoSessionCookie).Send()
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		current, err := h.sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, session.ErrNoSessionWasFound) {
				log.Warn().Err(ErrSessionInvalid).Send()
				session.ClearCookie(w, h.sessionCfg)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("session lookup failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		user, err := h.users.FindUserByID(ctx, current.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNoUserWasFound) {
				// The account is gone; drop the orphaned session.
				log.Warn().Err(ErrSessionInvalid).Int64("user_id", current.UserID).Msg("session points at a deleted account")
				_ = h.sessions.Destroy(ctx, sessionID)
				session.ClearCookie(w, h.sessionCfg)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			log.Err(err).Int64("user_id", current.UserID).Msg("session owner lookup failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// Store the session and its owner in the context so that downstream
		// handlers can retrieve them without re-querying.
		ctx = context.WithValue(ctx, utils.SessionCtxKey, &current)
		ctx = context.WithValue(ctx, utils.UserCtxKey, &user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
