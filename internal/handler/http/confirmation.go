package http

import (
	"errors"
	"net/http"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := r.URL.Query().Get("token")

	if _, err := h.services.ConfirmationService.Confirm(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrConfirmationTokenInvalid):
			log.Warn().Msg("invalid confirmation token")
			http.Error(w, "confirmation token is invalid", http.StatusUnprocessableEntity)
			return
		case errors.Is(err, service.ErrConfirmationTokenExpired):
			log.Warn().Msg("expired confirmation token")
			http.Error(w, "confirmation token has expired", http.StatusUnprocessableEntity)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during confirmation")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, models.Notice{
		Notice:     "Your email address has been confirmed. You can now log in.",
		RedirectTo: "/",
	}, http.StatusOK)
}
