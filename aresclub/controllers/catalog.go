package controllers

import (
	"aresclub/aresclub/catalog"
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"

	"go.uber.org/zap"
)

var (
	ErrGameNotFound      = apperrors.NotFound("Juego no encontrado")
	ErrPromotionNotFound = apperrors.NotFound("Promoción no encontrada")
)

// InteractionRecorder logs catalog interactions.
type InteractionRecorder interface {
	RecordGameInteraction(ctx context.Context, in *models.GameInteraction) error
	RecordPromoInteraction(ctx context.Context, in *models.PromoInteraction) error
}

// ClientInfo is what a tracked request tells us about its sender.
type ClientInfo struct {
	UserAgent string
	IP        string
}

type CatalogController struct {
	catalog      *catalog.Catalog
	interactions InteractionRecorder
	whatsappURL  string
}

func NewCatalogController(c *catalog.Catalog, interactions InteractionRecorder, whatsappURL string) *CatalogController {
	return &CatalogController{catalog: c, interactions: interactions, whatsappURL: whatsappURL}
}

func (c *CatalogController) Games() types.ListResponse {
	return types.ListResponse{Success: true, Data: c.catalog.Games, Total: len(c.catalog.Games)}
}

// Game returns one game and records a view. A failed view record is logged
// and does not fail the read.
func (c *CatalogController) Game(ctx context.Context, id int) (*types.ItemResponse, error) {
	game, ok := c.catalog.Game(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	err := c.interactions.RecordGameInteraction(ctx, &models.GameInteraction{
		GameName:        game.Name,
		InteractionType: models.InteractionView,
	})
	if err != nil {
		logging.ErrorLogger.Error("record game view failed",
			zap.String("kind", string(apperrors.KindTransientStore)),
			zap.String("game", game.Name), zap.Error(err))
	}
	return &types.ItemResponse{Success: true, Data: game}, nil
}

func (c *CatalogController) InteractGame(ctx context.Context, id int, info ClientInfo) (*types.InteractResponse, error) {
	game, ok := c.catalog.Game(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	err := c.interactions.RecordGameInteraction(ctx, &models.GameInteraction{
		GameName:        game.Name,
		InteractionType: models.InteractionClick,
		UserAgent:       optional(info.UserAgent),
		IPAddress:       optional(info.IP),
	})
	if err != nil {
		return nil, apperrors.Store("could not record interaction", err)
	}
	return &types.InteractResponse{
		Success:     true,
		Message:     "Interacción registrada",
		Game:        game.Name,
		WhatsAppURL: c.whatsappURL,
	}, nil
}

func (c *CatalogController) Promotions() types.ListResponse {
	active := c.catalog.ActivePromotions()
	return types.ListResponse{Success: true, Data: active, Total: len(active)}
}

func (c *CatalogController) InteractPromotion(ctx context.Context, id int, info ClientInfo) (*types.InteractResponse, error) {
	promo, ok := c.catalog.Promotion(id)
	if !ok {
		return nil, ErrPromotionNotFound
	}
	err := c.interactions.RecordPromoInteraction(ctx, &models.PromoInteraction{
		PromoName:       promo.Title,
		InteractionType: models.InteractionClick,
		UserAgent:       optional(info.UserAgent),
		IPAddress:       optional(info.IP),
	})
	if err != nil {
		return nil, apperrors.Store("could not record interaction", err)
	}
	return &types.InteractResponse{
		Success:     true,
		Message:     "Interacción con promoción registrada",
		Promo:       promo.Title,
		WhatsAppURL: c.whatsappURL,
	}, nil
}

func (c *CatalogController) PaymentMethods() types.ListResponse {
	return types.ListResponse{Success: true, Data: c.catalog.PaymentMethods, Total: len(c.catalog.PaymentMethods)}
}

func (c *CatalogController) FAQ() types.ListResponse {
	return types.ListResponse{Success: true, Data: c.catalog.FAQ, Total: len(c.catalog.FAQ)}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
