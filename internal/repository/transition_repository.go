package repository

import (
	"context"

	"pixstore/internal/domain/model"
)

type TransitionRepository interface {
	// FindActive returns (transition, false, nil) when no active row exists
	// for the status, which means no further automatic progression.
	FindActive(ctx context.Context, status model.OrderStatus) (model.StatusTransition, bool, error)
	ListActive(ctx context.Context) ([]model.StatusTransition, error)
}
