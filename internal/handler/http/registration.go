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

// newRegistration hands the form layer a fresh empty change request to
// render the signup form from.
func (h *Handler) newRegistration(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.NewChangeRequest(), http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var params models.SignupParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, cr, err := h.services.RegistrationService.Create(ctx, params, clientAddr(r))
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			utils.WriteJSON(w, models.ValidationFailure{ChangeRequest: *cr}, http.StatusUnprocessableEntity)
			return
		}
		log.Err(err).Msg("unexpected error occurred during registration")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	if result.Session != nil {
		session.WriteCookie(w, h.sessionCfg, *result.Session)
	}

	utils.WriteJSON(w, result, http.StatusCreated)
}

// clientAddr names the client for CAPTCHA verification and throttling. The
// service is expected to run behind a reverse proxy that sets X-Real-IP.
func clientAddr(r *http.Request) string {
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
