// Package middleware provides HTTP middleware for the API, applied in the
// router ahead of the handlers.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/vie2206/solo-legalight-sub007/internal/api/shared"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
)

// Trace attaches a trace ID to each request's context and binds a logger
// carrying that trace ID, so handlers logging through the context
// automatically correlate. Apply it early in the middleware chain.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.Default().With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
