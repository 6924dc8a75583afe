package foods

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Handler handles HTTP requests for the food catalog.
type Handler struct {
	service         *Service
	defaultPageSize int
	maxPageSize     int
}

// NewHandler creates a new foods handler.
func NewHandler(service *Service, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		service:         service,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// HandleListFoods handles GET /v1/foods?category=&search=&page=&pageSize=
func (h *Handler) HandleListFoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page := parsePositiveInt(q.Get("page"), 1)
	pageSize := parsePositiveInt(q.Get("pageSize"), h.defaultPageSize)
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	resp, err := h.service.List(ctx, q.Get("category"), q.Get("search"), page, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list foods")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleGetFood handles GET /v1/foods/{id}
func (h *Handler) HandleGetFood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid food id")
		return
	}

	food, found, err := h.service.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get food")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "food_not_found", "Food not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(food)
}

// HandleSearchFoods handles GET /v1/foods/search?q=
func (h *Handler) HandleSearchFoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}

	resp, err := h.service.Search(ctx, q, 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to search foods")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
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
