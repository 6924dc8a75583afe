package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fitbite/server/internal/auth"
	"github.com/fitbite/server/internal/config"
	"github.com/fitbite/server/internal/export"
	"github.com/fitbite/server/internal/foods"
	"github.com/fitbite/server/internal/mealplans"
	"github.com/fitbite/server/internal/nutrition"
	"github.com/fitbite/server/internal/storage"
	"github.com/fitbite/server/internal/storage/memory"
	"github.com/fitbite/server/internal/storage/postgres"
)

// Server is the HTTP server wiring config, storage and handlers.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New creates a new HTTP server.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// NewWithStorage creates a server over an existing storage (for tests).
func NewWithStorage(cfg *config.Config, st storage.Storage) *Server {
	s := &Server{
		config:  cfg,
		mux:     http.NewServeMux(),
		storage: st,
	}

	s.routes()
	return s
}

// initStorage picks Postgres when DATABASE_URL is set, otherwise the
// seeded in-memory storage.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Connecting to PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("Falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

// routes registers all endpoints.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandler(s.config, authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Food catalog API (public, read-only)
	foodsService := foods.NewService(s.storage.GetFoodsStorage())
	foodsHandler := foods.NewHandler(foodsService, s.config.DefaultPageSize, s.config.MaxPageSize)

	// GET /v1/foods - list catalog with filters
	s.mux.HandleFunc("GET /v1/foods", foodsHandler.HandleListFoods)

	// GET /v1/foods/search - name search for autocomplete
	s.mux.HandleFunc("GET /v1/foods/search", foodsHandler.HandleSearchFoods)

	// GET /v1/foods/{id} - single food
	s.mux.HandleFunc("GET /v1/foods/{id}", foodsHandler.HandleGetFood)

	// Meal Plans API
	mealPlansService := mealplans.NewService(s.storage.GetMealPlansStorage(), foodsService)
	mealPlansHandler := mealplans.NewHandler(mealPlansService, s.config.DefaultPageSize, s.config.MaxPageSize)

	// POST /v1/meals - create plan atomically
	s.mux.HandleFunc("POST /v1/meals", mealPlansHandler.HandleCreate)

	// GET /v1/meals - list own plans
	s.mux.HandleFunc("GET /v1/meals", mealPlansHandler.HandleList)

	// GET /v1/meals/{id} - full plan with computed nutrition
	s.mux.HandleFunc("GET /v1/meals/{id}", mealPlansHandler.HandleGet)

	// DELETE /v1/meals/{id} - delete own plan
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealPlansHandler.HandleDelete)

	// Export API
	exportHandler := export.NewHandler(mealPlansService, export.NewGenerator())

	// GET /v1/meals/{id}/export - CSV or PDF download
	s.mux.HandleFunc("GET /v1/meals/{id}/export", exportHandler.HandleExport)

	// Nutrition Targets API
	nutritionService := nutrition.NewService(s.storage.GetNutritionTargetsStorage())
	nutritionHandler := nutrition.NewHandler(nutritionService)

	// GET /v1/nutrition/targets - targets or defaults
	s.mux.HandleFunc("GET /v1/nutrition/targets", nutritionHandler.HandleGetTargets)

	// PUT /v1/nutrition/targets - upsert targets
	s.mux.HandleFunc("PUT /v1/nutrition/targets", nutritionHandler.HandleUpsertTargets)
}

// handleHealthz returns server status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler builds the middleware chain (outermost first):
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.RequireAuth(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Meal plans API: http://localhost%s/v1/meals\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
