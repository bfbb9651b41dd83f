package models

import "time"

type User struct {
	ID             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email          string    `json:"email" gorm:"type:varchar(120);not null;uniqueIndex"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255);not null"`
	IsAdmin        bool      `json:"is_admin" gorm:"not null;default:false"`
	// no column default: gorm would skip an explicit false on insert
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
