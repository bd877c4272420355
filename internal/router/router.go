package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newsletter/newsletter/internal/config"
	"github.com/newsletter/newsletter/internal/handler"
	"github.com/newsletter/newsletter/internal/middleware"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Probes
	mux.HandleFunc("GET /health_check", h.HealthCheck)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	subscribeRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "subscribe",
		Limit:  cfg.Security.RateLimiting.SubscribeLimit,
		Window: cfg.Security.RateLimiting.SubscribeWindow,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /subscriptions", subscribeRateLimit(http.HandlerFunc(h.Subscribe)))

	// Apply middleware stack
	var handler http.Handler = mux

	// Request logging and metrics
	handler = mw.Logger(handler)

	// Request ID and request-scoped logger
	handler = mw.RequestID(handler)

	// Server span
	handler = mw.Tracing(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
