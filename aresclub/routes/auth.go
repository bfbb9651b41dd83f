package routes

import (
	"aresclub/aresclub/controllers"
	"aresclub/aresclub/middlewares"
	"aresclub/aresclub/utils/types"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController, users middlewares.UserResolver) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		res, err := ctrl.Login(r.Context(), req)
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(users))
		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			return ctrl.Me(middlewares.CurrentUser(r.Context())), http.StatusOK, nil
		}))
	})
	return r
}
