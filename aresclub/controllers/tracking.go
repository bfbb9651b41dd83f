package controllers

import (
	"aresclub/aresclub/sources/psql/dao"
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/types"
	"context"
)

const (
	defaultContactMessage = "Contacto desde landing page"
	topGamesLimit         = 5
)

type TrackingController struct {
	contacts     *dao.ContactDAO
	interactions *dao.InteractionDAO
	messages     *dao.ChatMessageDAO
	whatsappURL  string
}

func NewTrackingController(contacts *dao.ContactDAO, interactions *dao.InteractionDAO, messages *dao.ChatMessageDAO, whatsappURL string) *TrackingController {
	return &TrackingController{
		contacts:     contacts,
		interactions: interactions,
		messages:     messages,
		whatsappURL:  whatsappURL,
	}
}

func (c *TrackingController) Contact(ctx context.Context, req types.ContactRequest) (*types.ContactResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	contact := &models.Contact{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: defaultContactMessage,
	}
	if req.Message != nil {
		contact.Message = *req.Message
	}
	if req.Source != nil {
		contact.Source = *req.Source
	}
	if err := c.contacts.CreateContact(ctx, contact); err != nil {
		return nil, apperrors.Store("could not save contact request", err)
	}
	return &types.ContactResponse{
		Success:     true,
		Message:     "Solicitud de contacto registrada exitosamente",
		ContactID:   contact.ID,
		WhatsAppURL: c.whatsappURL,
	}, nil
}

func (c *TrackingController) Stats(ctx context.Context) (*types.StatsResponse, error) {
	var (
		stats types.Stats
		err   error
	)
	if stats.TotalContacts, err = c.contacts.CountContacts(ctx); err != nil {
		return nil, apperrors.Store("could not load stats", err)
	}
	if stats.TotalGameInteractions, err = c.interactions.CountGameInteractions(ctx, ""); err != nil {
		return nil, apperrors.Store("could not load stats", err)
	}
	if stats.TotalPromoInteractions, err = c.interactions.CountPromoInteractions(ctx, ""); err != nil {
		return nil, apperrors.Store("could not load stats", err)
	}
	if stats.TotalChatMessages, err = c.messages.CountMessages(ctx); err != nil {
		return nil, apperrors.Store("could not load stats", err)
	}
	top, err := c.interactions.TopGames(ctx, topGamesLimit)
	if err != nil {
		return nil, apperrors.Store("could not load stats", err)
	}
	stats.TopGames = make([]types.NameCount, 0, len(top))
	for _, t := range top {
		stats.TopGames = append(stats.TopGames, types.NameCount{Name: t.Name, Clicks: t.Count})
	}
	return &types.StatsResponse{Success: true, Data: stats}, nil
}
