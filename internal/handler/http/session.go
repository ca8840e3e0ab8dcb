package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var params models.LoginParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, bound, err := h.services.AuthService.Login(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Warn().Msg("invalid email or password")
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrUnconfirmedAccount):
			log.Warn().Msg("unconfirmed account refused login")
			http.Error(w, "please confirm your email address first", http.StatusForbidden)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	session.WriteCookie(w, h.sessionCfg, bound)

	utils.WriteJSON(w, user, http.StatusOK)
}

// logout destroys the caller's session, if any. It deliberately sits outside
// the auth middleware: a request with a dead or missing cookie still gets
// its cookie cleared and a success answer.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID, _ := session.ReadCookie(r, h.sessionCfg)

	if err := h.services.AuthService.Logout(ctx, sessionID); err != nil {
		log.Err(err).Msg("unexpected error occurred during logout")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session.ClearCookie(w, h.sessionCfg)
	w.WriteHeader(http.StatusNoContent)
}
