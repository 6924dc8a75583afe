package export

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fitbite/server/internal/mealplans"
	"github.com/fitbite/server/internal/userctx"
)

// Handler handles meal plan export requests.
type Handler struct {
	plans     *mealplans.Service
	generator *Generator
}

// NewHandler creates a new export handler.
func NewHandler(plans *mealplans.Service, generator *Generator) *Handler {
	return &Handler{plans: plans, generator: generator}
}

// HandleExport handles GET /v1/meals/{id}/export?format=csv|pdf
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Missing user context")
		return
	}

	format := Format(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		writeError(w, http.StatusBadRequest, "invalid_request", "format must be csv or pdf")
		return
	}

	planID := r.PathValue("id")
	plan, err := h.plans.Get(ctx, ownerUserID, planID)
	if err != nil {
		if nfe, ok := mealplans.AsNotFoundError(err); ok {
			writeError(w, http.StatusNotFound, "not_found", nfe.Message)
			return
		}
		log.Printf("export: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load meal plan")
		return
	}

	data, contentType, err := h.generator.Generate(plan, format)
	if err != nil {
		log.Printf("export: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=meal-plan-%s.%s", planID, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
