package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"seasonpulse/internal/config"
	"seasonpulse/internal/middleware"
	"seasonpulse/pkg/contracts"
)

// RouterDeps collects everything the router mounts.
type RouterDeps struct {
	Seasonality *SeasonalityHandler
	Basket      *BasketHandler
	Pipeline    *PipelineHandler
	Metrics     http.Handler // Prometheus exposition; nil disables /metrics
}

// NewRouter assembles the SeasonPulse HTTP API.
func NewRouter(cfg *config.Config, logger *slog.Logger, deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.Security.AllowedOrigins,
	}))
	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Get("/healthz", HealthHandler)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", deps.Seasonality.Routes())
		r.Mount("/overlay", deps.Basket.Routes())
		r.Mount("/pipeline", deps.Pipeline.Routes())
	})

	return r
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthHandler handles GET /healthz.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		Service: "seasonpulse",
		Version: contracts.Version,
	})
}
