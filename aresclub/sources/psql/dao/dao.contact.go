package dao

import (
	"aresclub/aresclub/sources/psql/models"
	"context"

	"gorm.io/gorm"
)

type ContactDAO struct {
	DB *gorm.DB
}

func NewContactDAO(db *gorm.DB) *ContactDAO {
	return &ContactDAO{DB: db}
}

func (dao *ContactDAO) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.Source == "" {
		contact.Source = models.DefaultContactSource
	}
	return dao.DB.WithContext(ctx).Create(contact).Error
}

func (dao *ContactDAO) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Contact{}).Count(&count).Error
	return count, err
}
