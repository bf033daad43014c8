package api

import (
	"net/http"

	"github.com/garnizeh/workshop/internal/auth"
	"github.com/garnizeh/workshop/internal/config"
	"github.com/garnizeh/workshop/internal/db"
	"github.com/garnizeh/workshop/internal/jobid"
	"github.com/garnizeh/workshop/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

// SetupRoutes builds the HTTP handler. CORS wraps the router so preflight
// requests are answered even for paths that have no OPTIONS route.
func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(db, logger)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, issuer)
	repairsHandler := NewRepairsHandler(repo, repo, jobid.New(cfg.JobIDPrefix))
	dashboardHandler := NewDashboardHandler(repo, repo)

	// Open endpoints
	r.HandleFunc("/api/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/api/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/check-status", repairsHandler.CheckStatus).Methods("POST")

	// Protected routes. Registered before the public job lookup so that
	// /api/repairs/export is not captured by {jobId}.
	protected := r.NewRoute().Subrouter()
	protected.Use(JWTAuthMiddleware(issuer))

	protected.HandleFunc("/api/repairs", repairsHandler.ListRepairs).Methods("GET")
	protected.HandleFunc("/api/repairs", repairsHandler.CreateRepair).Methods("POST")
	protected.HandleFunc("/api/repairs/export", dashboardHandler.Export).Methods("GET")
	protected.HandleFunc("/api/repairs/{jobId}/history", repairsHandler.ListHistory).Methods("GET")
	protected.HandleFunc("/api/repairs/{jobId}", repairsHandler.UpdateRepair).Methods("PUT")
	protected.HandleFunc("/api/dashboard/stats", dashboardHandler.Stats).Methods("GET")

	r.HandleFunc("/api/repairs/{jobId}", repairsHandler.GetRepair).Methods("GET")

	r.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	})

	if cfg.StaticDir != "" {
		registerPages(r, cfg.StaticDir)
	}

	return CORSMiddleware(r)
}
