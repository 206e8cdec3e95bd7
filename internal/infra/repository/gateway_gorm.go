package repository

import (
	"context"
	"errors"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"

	"gorm.io/gorm"
)

type GatewayGormRepository struct {
	db *gorm.DB
}

func NewGatewayGormRepository(db *gorm.DB) *GatewayGormRepository {
	return &GatewayGormRepository{db: db}
}

func (r *GatewayGormRepository) FindActive(ctx context.Context, provider string) (model.GatewayConfig, error) {
	var g model.GatewayConfig
	err := r.db.WithContext(ctx).
		Where("provider = ? AND ativo = true", provider).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GatewayConfig{}, repo.ErrNotFound
	}
	if err != nil {
		return model.GatewayConfig{}, err
	}
	return g, nil
}

func (r *GatewayGormRepository) ListActive(ctx context.Context) ([]model.GatewayConfig, error) {
	var items []model.GatewayConfig
	err := r.db.WithContext(ctx).Where("ativo = true").Find(&items).Error
	if err != nil {
		return []model.GatewayConfig{}, err
	}
	return items, nil
}
