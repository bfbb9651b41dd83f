package models

import "time"

// ChatMessage is immutable once stored. UserID is nil for anonymous visitors.
type ChatMessage struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *int      `json:"user_id,omitempty" gorm:"index"`
	Username  string    `json:"username" gorm:"type:varchar(50);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
