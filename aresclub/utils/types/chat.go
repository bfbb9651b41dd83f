package types

import (
	"encoding/json"
	"time"
)

// Live connection event names.
const (
	EventConnected   = "connected"
	EventNewMessage  = "new_message"
	EventUserMessage = "user_message"
	EventError       = "error"
)

// Event is the envelope of every frame on a live chat connection.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// InboundEvent keeps Data raw until the event name is known.
type InboundEvent struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type ConnectedPayload struct {
	Message string `json:"message"`
}

// UserMessagePayload is what a visitor sends over the live connection.
type UserMessagePayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// MessagePayload is the public shape of a stored chat message.
type MessagePayload struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type MessagesResponse struct {
	Success bool             `json:"success"`
	Data    []MessagePayload `json:"data"`
}

type ArchiveResponse struct {
	Success  bool   `json:"success"`
	Key      string `json:"key"`
	Messages int    `json:"messages"`
}
