package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/newsletter/newsletter/internal/tracing"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID assigns every request an ID, echoes it in X-Request-ID and
// stores a request-scoped logger carrying it (and the trace ID) in the
// request context.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

		reqLog := m.log.WithRequestID(requestID)
		if traceID := tracing.TraceID(ctx); traceID != "" {
			reqLog = reqLog.WithStr("trace_id", traceID)
		}
		ctx = reqLog.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
