package controllers

import (
	"aresclub/aresclub/services/auth"
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"

	"go.uber.org/zap"
)

type AuthController struct {
	guard *auth.Guard
}

func NewAuthController(guard *auth.Guard) *AuthController {
	return &AuthController{guard: guard}
}

func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, err := c.guard.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		logging.AppLogger.Info("login rejected", zap.String("username", req.Username),
			zap.String("kind", string(apperrors.KindOf(err))))
		return nil, err
	}
	token, expiresAt, err := c.guard.IssueSessionToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not issue token", err)
	}
	logging.AppLogger.Info("login", zap.String("username", user.Username), zap.Bool("admin", user.IsAdmin))
	return &types.LoginResponse{
		Token:       token,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        Summary(user),
	}, nil
}

// Me describes the user the auth middleware resolved.
func (c *AuthController) Me(user *models.User) types.UserSummary {
	return Summary(user)
}

func Summary(u *models.User) types.UserSummary {
	return types.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}
