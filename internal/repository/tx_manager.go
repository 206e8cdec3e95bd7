package repository

import "context"

// Repositories available inside one transaction.
type TxRepos interface {
	Orders() OrderRepository
	History() StatusHistoryRepository
	Users() UserRepository
	Transitions() TransitionRepository
	Outbox() OutboxRepository
}

// Hides tx begin/commit/rollback from the usecases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
