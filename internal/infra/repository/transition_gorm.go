package repository

import (
	"context"
	"errors"

	"pixstore/internal/domain/model"

	"gorm.io/gorm"
)

type TransitionGormRepository struct {
	db *gorm.DB
}

func NewTransitionGormRepository(db *gorm.DB) *TransitionGormRepository {
	return &TransitionGormRepository{db: db}
}

func (r *TransitionGormRepository) FindActive(ctx context.Context, status model.OrderStatus) (model.StatusTransition, bool, error) {
	var t model.StatusTransition
	err := r.db.WithContext(ctx).
		Where("status_atual = ? AND ativo = true", status).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StatusTransition{}, false, nil
	}
	if err != nil {
		return model.StatusTransition{}, false, err
	}
	return t, true, nil
}

func (r *TransitionGormRepository) ListActive(ctx context.Context) ([]model.StatusTransition, error) {
	var items []model.StatusTransition
	err := r.db.WithContext(ctx).Where("ativo = true").Find(&items).Error
	if err != nil {
		return []model.StatusTransition{}, err
	}
	return items, nil
}
