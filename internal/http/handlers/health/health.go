// Package health serves liveness endpoints outside the API resources.
package health

import (
	"net/http"

	"github.com/aanand-mishra/taskflow-api/internal/utils/response"
)

const serviceName = "TaskFlow API"

// Root handles GET /.
func Root(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": serviceName,
			"version": version,
		})
	}
}

// API handles GET /api/health.
func API() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "healthy",
			"api_version": "v1",
		})
	}
}
