package middleware

import (
	"log/slog"
	"net/http"

	"garden-planner-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger puts a logger tagged with chi's request id on the context.
// It must run after chimw.RequestID.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scoped := log.With("request_id", chimw.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), scoped)))
		})
	}
}

// AccessLog is chi's access logger writing through the application's slog handler.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(&chimw.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(log.Slog().Handler(), slog.LevelInfo),
		NoColor: true,
	})
}
