package types

import "time"

// ListResponse wraps the public catalog lists.
type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Total   int  `json:"total"`
}

type ItemResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type InteractResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Game        string `json:"game,omitempty"`
	Promo       string `json:"promo,omitempty"`
	WhatsAppURL string `json:"whatsapp_url"`
}

type ContactRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Email   *string `json:"email" validate:"omitempty,email,max=120"`
	Message *string `json:"message"`
	Source  *string `json:"source" validate:"omitempty,max=50"`
}

type ContactResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ContactID   int    `json:"contact_id"`
	WhatsAppURL string `json:"whatsapp_url"`
}

type NameCount struct {
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

type Stats struct {
	TotalGameInteractions  int64       `json:"total_game_interactions"`
	TotalPromoInteractions int64       `json:"total_promo_interactions"`
	TotalContacts          int64       `json:"total_contacts"`
	TotalChatMessages      int64       `json:"total_chat_messages"`
	TopGames               []NameCount `json:"top_games"`
}

type StatsResponse struct {
	Success bool  `json:"success"`
	Data    Stats `json:"data"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

type SendMessageResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    MessagePayload `json:"data"`
}

type OnlineResponse struct {
	Success bool `json:"success"`
	Online  int  `json:"online"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
}
