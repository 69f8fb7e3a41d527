package middleware

import (
	"log/slog"
	"net/http"

	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and a logger tagged
// with it, so error responses and handler logs can be correlated. Apply it
// before any handler that logs.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
