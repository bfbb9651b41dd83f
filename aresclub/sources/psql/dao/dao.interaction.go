package dao

import (
	"aresclub/aresclub/sources/psql/models"
	"context"

	"gorm.io/gorm"
)

// NameCount is one row of a grouped tally.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"clicks" gorm:"column:interactions"`
}

type InteractionDAO struct {
	DB *gorm.DB
}

func NewInteractionDAO(db *gorm.DB) *InteractionDAO {
	return &InteractionDAO{DB: db}
}

func (dao *InteractionDAO) RecordGameInteraction(ctx context.Context, in *models.GameInteraction) error {
	return dao.DB.WithContext(ctx).Create(in).Error
}

func (dao *InteractionDAO) RecordPromoInteraction(ctx context.Context, in *models.PromoInteraction) error {
	return dao.DB.WithContext(ctx).Create(in).Error
}

// CountGameInteractions counts all rows when kind is empty.
func (dao *InteractionDAO) CountGameInteractions(ctx context.Context, kind models.InteractionKind) (int64, error) {
	return dao.count(ctx, &models.GameInteraction{}, kind)
}

func (dao *InteractionDAO) CountPromoInteractions(ctx context.Context, kind models.InteractionKind) (int64, error) {
	return dao.count(ctx, &models.PromoInteraction{}, kind)
}

func (dao *InteractionDAO) count(ctx context.Context, model any, kind models.InteractionKind) (int64, error) {
	var count int64
	q := dao.DB.WithContext(ctx).Model(model)
	if kind != "" {
		q = q.Where("interaction_type = ?", kind)
	}
	err := q.Count(&count).Error
	return count, err
}

// TopGames returns the n most interacted games, highest count first, ties by name.
func (dao *InteractionDAO) TopGames(ctx context.Context, n int) ([]NameCount, error) {
	return dao.top(ctx, &models.GameInteraction{}, "game_name", n)
}

func (dao *InteractionDAO) TopPromotions(ctx context.Context, n int) ([]NameCount, error) {
	return dao.top(ctx, &models.PromoInteraction{}, "promo_name", n)
}

func (dao *InteractionDAO) top(ctx context.Context, model any, column string, n int) ([]NameCount, error) {
	var rows []NameCount
	err := dao.DB.WithContext(ctx).
		Model(model).
		Select(column + " AS name, COUNT(id) AS interactions").
		Group(column).
		Order("interactions DESC").
		Order(column + " ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
