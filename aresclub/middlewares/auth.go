package middlewares

import (
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/types"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const UserKey contextKey = "user"

// UserResolver maps a bearer token to its account.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

var ErrMissingToken = apperrors.Authentication("not authenticated")

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				WriteError(w, ErrMissingToken)
				return
			}
			user, err := resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var ErrAdminRequired = apperrors.Authorization("admin privileges required")

// AdminOnly must run after AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil {
			WriteError(w, ErrMissingToken)
			return
		}
		if !user.IsAdmin {
			WriteError(w, ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// WriteError renders err as the standard failure body.
func WriteError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.ErrorResponse{
		Success: false,
		Kind:    string(apperrors.KindOf(err)),
		Detail:  apperrors.DetailOf(err),
	})
}
