package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/newsletter/newsletter/internal/logger"
	"github.com/newsletter/newsletter/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs HTTP requests and records request metrics
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		// The mux fills in r.Pattern; fall back to a fixed label so unknown
		// paths don't create new series or span names.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
			trace.SpanFromContext(r.Context()).SetName(r.Method + " unmatched")
		} else {
			trace.SpanFromContext(r.Context()).SetName(route)
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.statusCode, duration)

		logger.FromContext(r.Context(), m.log).
			HTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, duration, clientIP(r))
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
