package models

import "time"

const DefaultContactSource = "whatsapp"

type Contact struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      *string   `json:"name,omitempty" gorm:"type:varchar(100)"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(120)"`
	Message   string    `json:"message" gorm:"type:text"`
	Source    string    `json:"source" gorm:"type:varchar(50);not null;default:whatsapp"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}

// All returns every model AutoMigrate must create.
func All() []any {
	return []any{
		&User{},
		&ChatMessage{},
		&GameInteraction{},
		&PromoInteraction{},
		&Contact{},
	}
}
