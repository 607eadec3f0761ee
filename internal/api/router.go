package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Compass/internal/broker"
	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/hermes"
	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

// RouterConfig carries the HTTP-facing settings.
type RouterConfig struct {
	AdminToken      string
	RateLimitPerMin int
}

func NewRouter(s store.Store, h hermes.Client, reg *definition.Registry, builder *report.Builder, b *broker.Broker, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.RateLimitPerMin > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimitPerMin))
	}

	if cfg.AdminToken == "" {
		logger.Warn("admin token not set, admin endpoints are unauthenticated")
	}

	assessments := NewAssessmentsHandler(reg, builder)
	sessions := NewSessionsHandler(s, h, reg, b, logger)
	admin := NewAdminHandler(reg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/assessments", assessments.List)
		r.Get("/assessments/{id}", assessments.Get)
		r.Post("/assessments/{id}/report", assessments.Report)

		r.Post("/sessions", sessions.Create)
		r.Get("/sessions", sessions.List)
		r.Get("/sessions/{id}", sessions.Get)
		r.Put("/sessions/{id}/responses/{topic_id}", sessions.SaveResponse)
		r.Get("/sessions/{id}/report", sessions.Report)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Post("/admin/reload", admin.Reload)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
