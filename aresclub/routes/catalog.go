package routes

import (
	"aresclub/aresclub/controllers"
	"aresclub/aresclub/middlewares"
	"aresclub/aresclub/utils/types"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func CatalogRoutes(r chi.Router, ctrl *controllers.CatalogController) {
	r.Get("/games", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Games(), http.StatusOK, nil
	}))
	r.Get("/games/{id}", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := intParam(r, "id")
		if err != nil {
			return nil, 0, err
		}
		res, err := ctrl.Game(r.Context(), id)
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))
	r.Post("/games/{id}/interact", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := intParam(r, "id")
		if err != nil {
			return nil, 0, err
		}
		res, err := ctrl.InteractGame(r.Context(), id, clientInfo(r))
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Get("/promotions", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Promotions(), http.StatusOK, nil
	}))
	r.Post("/promotions/{id}/interact", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := intParam(r, "id")
		if err != nil {
			return nil, 0, err
		}
		res, err := ctrl.InteractPromotion(r.Context(), id, clientInfo(r))
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Get("/payment-methods", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.PaymentMethods(), http.StatusOK, nil
	}))
	r.Get("/faq", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.FAQ(), http.StatusOK, nil
	}))
}

func TrackingRoutes(r chi.Router, ctrl *controllers.TrackingController, users middlewares.UserResolver) {
	r.Post("/contact", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.ContactRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		res, err := ctrl.Contact(r.Context(), req)
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(users))
		gr.Use(middlewares.AdminOnly)
		gr.Get("/stats", handleJSON(func(r *http.Request) (any, int, error) {
			res, err := ctrl.Stats(r.Context())
			if err != nil {
				return nil, 0, err
			}
			return res, http.StatusOK, nil
		}))
	})
}

// clientInfo relies on middleware.RealIP having rewritten RemoteAddr.
func clientInfo(r *http.Request) controllers.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return controllers.ClientInfo{UserAgent: r.UserAgent(), IP: ip}
}
