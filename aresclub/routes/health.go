package routes

import (
	"aresclub/aresclub/controllers"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RootRoutes serves the banner at the site root, outside /api.
func RootRoutes(r chi.Router, ctrl *controllers.HealthController) {
	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Root(), http.StatusOK, nil
	}))
}

func HealthRoutes(r chi.Router, ctrl *controllers.HealthController) {
	r.Get("/health", handleJSON(func(r *http.Request) (any, int, error) {
		res, err := ctrl.HealthCheck(r.Context())
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))
}
