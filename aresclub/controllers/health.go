package controllers

import (
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"
	"time"

	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db  Pinger
	now func() time.Time
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db, now: time.Now}
}

func (h *HealthController) Root() types.StatusResponse {
	return types.StatusResponse{
		Message: "Bienvenido a Ares Club Casino API",
		Version: "2.0.0",
		Status:  "active",
	}
}

func (h *HealthController) HealthCheck(ctx context.Context) (*types.HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logging.ErrorLogger.Error("health check failed", zap.Error(err))
		return nil, apperrors.Store("database unreachable", err)
	}
	return &types.HealthResponse{Status: "healthy", Database: "connected", Timestamp: h.now().UTC()}, nil
}
