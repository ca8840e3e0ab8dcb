package http

import (
	"net/http"

	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.HealthStatus{
		Status:  "ok",
		Version: h.version,
	}, http.StatusOK)
}
