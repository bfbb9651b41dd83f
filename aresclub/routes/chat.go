package routes

import (
	"aresclub/aresclub/controllers"
	"aresclub/aresclub/middlewares"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"net/http"
	"slices"
	"strconv"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ChatRoutes(ctrl *controllers.ChatController, users middlewares.UserResolver) chi.Router {
	r := chi.NewRouter()
	r.Get("/messages", handleJSON(func(r *http.Request) (any, int, error) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		res, err := ctrl.Messages(r.Context(), limit)
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Get("/online", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Online(), http.StatusOK, nil
	}))

	// the hub resolves the token itself so a non-admin gets 403 before body checks
	r.Post("/send", handleJSON(func(r *http.Request) (any, int, error) {
		token := middlewares.BearerToken(r)
		if token == "" {
			return nil, 0, middlewares.ErrMissingToken
		}
		// an unreadable body counts as an empty message
		var req types.SendMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			req = types.SendMessageRequest{}
		}
		res, err := ctrl.Send(r.Context(), token, req)
		if err != nil {
			return nil, 0, err
		}
		return res, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(users))
		gr.Use(middlewares.AdminOnly)
		gr.Post("/archive", handleJSON(func(r *http.Request) (any, int, error) {
			res, err := ctrl.Archive(r.Context())
			if err != nil {
				return nil, 0, err
			}
			return res, http.StatusOK, nil
		}))
	})
	return r
}

// LiveChatHandler upgrades to a websocket and hands the connection to the hub.
func LiveChatHandler(ctrl *controllers.ChatController, allowedOrigins []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = allowedOrigins
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		ctrl.ServeConnection(r.Context(), conn, r.URL.Query().Get("token"))
	}
}
