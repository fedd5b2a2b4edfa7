package handler

import (
	"context"
	"net/http"
	"time"
)

// PingFunc checks the backing store; non-nil errors mark the service unhealthy.
type PingFunc func(ctx context.Context) error

// HealthHandler returns the liveness endpoint.
func HealthHandler(ping PingFunc, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, envelope{
				"success": false,
				"message": "database unreachable",
			})
			return
		}
		RespondJSON(w, http.StatusOK, envelope{
			"success":        true,
			"message":        "tour0001 backend is running",
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	}
}

// IndexHandler describes the API surface at the root path.
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusOK, envelope{
			"success": true,
			"message": "tour0001 backend API",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"health":  "/health",
				"joueurs": "/api/joueurs",
				"etages":  "/api/etages",
			},
		})
	}
}

// NotFoundHandler returns the 404 envelope for unmatched routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusNotFound, envelope{
			"success": false,
			"message": "route not found",
		})
	}
}
