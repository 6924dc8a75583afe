package auth

import (
	"encoding/json"
	"net/http"

	"github.com/fitbite/server/internal/config"
)

// Handler handles auth HTTP requests.
type Handler struct {
	config  *config.Config
	service *Service
}

func NewHandler(cfg *config.Config, service *Service) *Handler {
	return &Handler{config: cfg, service: service}
}

// HandleDevAuth handles POST /v1/auth/dev. Disabled outside dev mode.
func (h *Handler) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	if h.config.AuthMode != "dev" {
		writeError(w, http.StatusNotFound, "not_found", "Not found")
		return
	}

	resp, err := h.service.SignInDev(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to sign in")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
