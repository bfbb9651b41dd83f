package routes

import (
	"aresclub/aresclub/controllers"
	"aresclub/aresclub/middlewares"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Auth     *controllers.AuthController
	Chat     *controllers.ChatController
	Catalog  *controllers.CatalogController
	Tracking *controllers.TrackingController
	Health   *controllers.HealthController
	Users    middlewares.UserResolver

	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the full API under /api.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	RootRoutes(r, d.Health)
	r.Route("/api", func(api chi.Router) {
		// long-lived, must not inherit the request timeout
		api.Get("/chat/ws", LiveChatHandler(d.Chat, d.AllowedOrigins))

		api.Group(func(gr chi.Router) {
			if d.RequestTimeout > 0 {
				gr.Use(middleware.Timeout(d.RequestTimeout))
			}
			HealthRoutes(gr, d.Health)
			gr.Mount("/auth", AuthRoutes(d.Auth, d.Users))
			gr.Mount("/chat", ChatRoutes(d.Chat, d.Users))
			CatalogRoutes(gr, d.Catalog)
			TrackingRoutes(gr, d.Tracking, d.Users)
		})
	})
	return r
}

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			if apperrors.StatusOf(err) >= http.StatusInternalServerError {
				logging.ErrorLogger.Error("request failed",
					zap.String("path", r.URL.Path),
					zap.String("trace_id", logging.TraceID(r.Context())),
					zap.Error(err))
			}
			middlewares.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request body", err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperrors.Validation(name + " must be an integer")
	}
	return id, nil
}
