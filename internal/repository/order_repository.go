package repository

import (
	"context"
	"time"

	"pixstore/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByTxID(ctx context.Context, txid string) (model.Order, bool, error)
	// Fallback correlation for webhooks that embed the order number
	// somewhere inside their identifier field.
	FindByNumeroPedido(ctx context.Context, numero string) (model.Order, bool, error)
	ListByTelefone(ctx context.Context, telefone string) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) error
	LinkUser(ctx context.Context, telefone string, userID int64) error

	// Durable scheduling columns. SetNextTransition with nil values clears
	// any armed transition (cancel-by-overwrite).
	SetNextTransition(ctx context.Context, orderID int64, at *time.Time, to *model.OrderStatus) error
	ListDueTransitions(ctx context.Context, now time.Time, limit int) ([]model.Order, error)
	ListUnscheduledActive(ctx context.Context, terminal []model.OrderStatus) ([]model.Order, error)

	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
