package repository

import (
	"context"

	"pixstore/internal/domain/model"
)

type SettingsRepository interface {
	Get(ctx context.Context) (model.StoreSettings, error)
}
