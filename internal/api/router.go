package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/aiox-platform/intake/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// WhatsApp webhook
	VerifyWebhook  http.HandlerFunc
	ReceiveWebhook http.HandlerFunc

	// Admin lead API
	GetLead    http.HandlerFunc
	DeleteLead http.HandlerFunc
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AdminAPIKey        string
	WebhookRateLimiter func(http.Handler) http.Handler

	// Readiness checks keyed by dependency name. A nil check is reported
	// as "not configured".
	Checks map[string]HealthCheck
}

func NewRouter(cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)

	// Liveness probe, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	readiness := readinessHandler(cfg.Checks)
	r.Get("/health/ready", readiness)
	r.Get("/health", readiness)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// WhatsApp Cloud API webhook
	r.Route("/webhook", func(r chi.Router) {
		if cfg.WebhookRateLimiter != nil {
			r.Use(cfg.WebhookRateLimiter)
		}
		r.Get("/", h.VerifyWebhook)
		r.Post("/", h.ReceiveWebhook)
	})

	// Admin API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))
		r.Use(mw.APIKey(cfg.AdminAPIKey))

		r.Route("/leads/{endpointID}/{senderID}", func(r chi.Router) {
			r.Get("/", h.GetLead)
			r.Delete("/", h.DeleteLead)
		})
	})

	return r
}

func readinessHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health := map[string]string{"status": "healthy"}
		status := http.StatusOK

		for name, check := range checks {
			switch {
			case check == nil:
				health[name] = "not configured"
			case check(ctx) != nil:
				health[name] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
			default:
				health[name] = "healthy"
			}
		}

		JSON(w, status, health)
	}
}
