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

func (h *Handler) showAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, found := utils.GetUserFromContext(r.Context())
	if !found {
		log.Error().Str("func", "*Handler.showAccount").Msg("no authenticated user in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

// editAccount hands the form layer a change request pre-filled with the
// current profile values.
func (h *Handler) editAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, found := utils.GetUserFromContext(r.Context())
	if !found {
		log.Error().Str("func", "*Handler.editAccount").Msg("no authenticated user in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	cr := models.NewChangeRequest()
	cr.Email = user.Email
	cr.Name = user.Name

	utils.WriteJSON(w, cr, http.StatusOK)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, found := utils.GetUserFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.updateAccount").Msg("no authenticated user in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var params models.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, cr, err := h.services.RegistrationService.Update(ctx, *user, params)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			utils.WriteJSON(w, models.ValidationFailure{ChangeRequest: *cr}, http.StatusUnprocessableEntity)
			return
		}
		log.Err(err).Msg("unexpected error occurred during account update")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	// The update rotated the caller's sessions, so the old cookie is dead;
	// hand over the fresh one.
	if result.Session != nil {
		session.WriteCookie(w, h.sessionCfg, *result.Session)
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, found := utils.GetUserFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteAccount").Msg("no authenticated user in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.RegistrationService.Delete(ctx, *user); err != nil {
		if errors.Is(err, service.ErrDeletionFailed) {
			// Sessions are already destroyed at this point; the cookie is
			// dead either way.
			session.ClearCookie(w, h.sessionCfg)
			log.Err(err).Int64("user_id", user.UserID).Msg("account deletion failed")
			http.Error(w, "account deletion failed", http.StatusBadGateway)
			return
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("unexpected error occurred during account deletion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	session.ClearCookie(w, h.sessionCfg)

	utils.WriteJSON(w, models.Notice{
		Notice:     "Your account has been deleted.",
		RedirectTo: "/",
	}, http.StatusOK)
}
