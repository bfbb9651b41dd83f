package dao

import (
	"aresclub/aresclub/sources/psql/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername is an exact match; (nil, nil) means no such user.
func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user *models.User) error {
	return dao.DB.WithContext(ctx).Create(user).Error
}

// EnsureUser inserts user unless one with the same username exists.
// It reports whether a row was created; user holds the stored row either way.
func (dao *UserDAO) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	existing, err := dao.GetUserByUsername(ctx, user.Username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		*user = *existing
		return false, nil
	}
	if err := dao.CreateUser(ctx, user); err != nil {
		// lost a race against another initializer; the unique index kept one row
		existing, lookupErr := dao.GetUserByUsername(ctx, user.Username)
		if lookupErr == nil && existing != nil {
			*user = *existing
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (dao *UserDAO) SetActive(ctx context.Context, id int, active bool) error {
	return dao.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (dao *UserDAO) DeleteUser(ctx context.Context, id int) error {
	return dao.DB.WithContext(ctx).Delete(&models.User{}, id).Error
}
