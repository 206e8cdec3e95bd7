package repository

import (
	"context"

	repo "pixstore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders      repo.OrderRepository
	history     repo.StatusHistoryRepository
	users       repo.UserRepository
	transitions repo.TransitionRepository
	outbox      repo.OutboxRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository            { return r.orders }
func (r *txReposGorm) History() repo.StatusHistoryRepository   { return r.history }
func (r *txReposGorm) Users() repo.UserRepository              { return r.users }
func (r *txReposGorm) Transitions() repo.TransitionRepository  { return r.transitions }
func (r *txReposGorm) Outbox() repo.OutboxRepository           { return r.outbox }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repos are rebuilt on the tx-scoped DB handle
		r := &txReposGorm{
			orders:      NewOrderGormRepository(tx),
			history:     NewStatusHistoryGormRepository(tx),
			users:       NewUserGormRepository(tx),
			transitions: NewTransitionGormRepository(tx),
			outbox:      NewOutboxGormRepository(tx),
		}
		return fn(r)
	})
}
