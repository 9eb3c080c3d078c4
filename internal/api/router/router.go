package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/socpulse/maturity/internal/api/handlers"
	"github.com/socpulse/maturity/internal/api/middleware"
	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/metrics"
)

type Handlers struct {
	Health         *handlers.HealthHandler
	Kpi            *handlers.KpiHandler
	Recommendation *handlers.RecommendationHandler
	Snapshot       *handlers.SnapshotHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(strings.Split(cfg.Server.AllowedOrigins, ",")))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Operational endpoints
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)

	// KPI read surface
	r.Route("/api/v1/kpi", func(r chi.Router) {
		r.Get("/current", h.Kpi.GetCurrent)
		r.Get("/trend", h.Kpi.GetTrend)
		r.Get("/incidents-by-category", h.Kpi.GetIncidentsByCategory)
	})

	// Recommendations
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Get("/", h.Recommendation.List)
		r.Post("/generate", h.Recommendation.Generate)
	})

	// Snapshot control
	r.Route("/api/v1/snapshots", func(r chi.Router) {
		r.Post("/run", h.Snapshot.Run)
		r.Post("/backfill", h.Snapshot.Backfill)
	})

	return r
}
