package repository

import (
	"context"

	"pixstore/internal/domain/model"

	"gorm.io/gorm"
)

type StatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewStatusHistoryGormRepository(db *gorm.DB) *StatusHistoryGormRepository {
	return &StatusHistoryGormRepository{db: db}
}

func (r *StatusHistoryGormRepository) Append(ctx context.Context, entry model.StatusHistory) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *StatusHistoryGormRepository) ListByPedidoID(ctx context.Context, pedidoID int64) ([]model.StatusHistory, error) {
	var items []model.StatusHistory
	err := r.db.WithContext(ctx).
		Where("pedido_id = ?", pedidoID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.StatusHistory{}, err
	}
	return items, nil
}
