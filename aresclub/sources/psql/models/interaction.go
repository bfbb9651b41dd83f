package models

import "time"

type InteractionKind string

const (
	InteractionView  InteractionKind = "view"
	InteractionClick InteractionKind = "click"
)

type GameInteraction struct {
	ID              int             `json:"id" gorm:"primaryKey;autoIncrement"`
	GameName        string          `json:"game_name" gorm:"type:varchar(100);not null;index"`
	InteractionType InteractionKind `json:"interaction_type" gorm:"type:varchar(50);not null;default:click"`
	UserAgent       *string         `json:"user_agent,omitempty" gorm:"type:text"`
	IPAddress       *string         `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (GameInteraction) TableName() string {
	return "game_interactions"
}

type PromoInteraction struct {
	ID              int             `json:"id" gorm:"primaryKey;autoIncrement"`
	PromoName       string          `json:"promo_name" gorm:"type:varchar(100);not null;index"`
	InteractionType InteractionKind `json:"interaction_type" gorm:"type:varchar(50);not null;default:click"`
	UserAgent       *string         `json:"user_agent,omitempty" gorm:"type:text"`
	IPAddress       *string         `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (PromoInteraction) TableName() string {
	return "promo_interactions"
}
