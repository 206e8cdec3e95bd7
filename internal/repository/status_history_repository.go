package repository

import (
	"context"

	"pixstore/internal/domain/model"
)

type StatusHistoryRepository interface {
	Append(ctx context.Context, entry model.StatusHistory) error
	ListByPedidoID(ctx context.Context, pedidoID int64) ([]model.StatusHistory, error)
}
