package repository

import (
	"context"
	"errors"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"

	"gorm.io/gorm"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

// Get returns the singleton settings row.
func (r *SettingsGormRepository) Get(ctx context.Context) (model.StoreSettings, error) {
	var s model.StoreSettings
	err := r.db.WithContext(ctx).Order("id asc").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StoreSettings{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StoreSettings{}, err
	}
	return s, nil
}
