package repository

import (
	"context"

	"pixstore/internal/domain/model"
)

type GatewayRepository interface {
	FindActive(ctx context.Context, provider string) (model.GatewayConfig, error)
	ListActive(ctx context.Context) ([]model.GatewayConfig, error)
}
