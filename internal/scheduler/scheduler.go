// Package scheduler drives automatic order-status progression. Pending
// transitions are durable columns on the order row polled by a single
// loop, so restarts lose nothing and a manual status write cancels any
// armed transition by simply overwriting the columns.
package scheduler

import (
	"context"
	"log"
	"time"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"
)

const dueBatchSize = 100

// Terminal statuses never re-enter automatic progression.
var terminalStatuses = []model.OrderStatus{model.StatusEntregue, model.StatusCancelado}

// Arm computes the next automatic transition for the order's current
// status and writes it to the scheduling columns. No active transition
// row means the status is terminal for scheduling: the columns are
// cleared instead.
func Arm(ctx context.Context, r repo.TxRepos, order model.Order) error {
	if order.Status.Terminal() {
		return r.Orders().SetNextTransition(ctx, order.ID, nil, nil)
	}

	t, found, err := r.Transitions().FindActive(ctx, order.Status)
	if err != nil {
		return err
	}
	if !found {
		return r.Orders().SetNextTransition(ctx, order.ID, nil, nil)
	}

	at := time.Now().Add(time.Duration(t.MinutosEspera) * time.Minute)
	return r.Orders().SetNextTransition(ctx, order.ID, &at, &t.ProximoStatus)
}

type Loop struct {
	tx       repo.TransactionManager
	interval time.Duration
}

func NewLoop(tx repo.TransactionManager, interval time.Duration) *Loop {
	return &Loop{tx: tx, interval: interval}
}

// Recover re-arms every non-terminal order with no scheduled transition.
// Transitions whose wait window fully elapsed while the process was down
// fire on the first tick rather than being skipped.
func (l *Loop) Recover(ctx context.Context) error {
	return l.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListUnscheduledActive(ctx, terminalStatuses)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if err := Arm(ctx, r, o); err != nil {
				log.Printf("[scheduler] recover: arm pedido %d: %v", o.ID, err)
			}
		}
		log.Printf("[scheduler] recovery rescanned %d pedidos", len(orders))
		return nil
	})
}

// Run polls for due transitions until the context is cancelled. Failures
// are logged and swallowed; the loop never stops on them.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Tick(ctx); err != nil {
				log.Printf("[scheduler] tick: %v", err)
			}
		}
	}
}

// Tick applies every due transition. Each order gets its own transaction
// so one failure does not hold back the batch.
func (l *Loop) Tick(ctx context.Context) error {
	var due []model.Order
	err := l.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var derr error
		due, derr = r.Orders().ListDueTransitions(ctx, time.Now(), dueBatchSize)
		return derr
	})
	if err != nil {
		return err
	}

	for _, o := range due {
		if err := l.fire(ctx, o.ID); err != nil {
			log.Printf("[scheduler] pedido %d: %v", o.ID, err)
		}
	}
	return nil
}

// fire re-reads the order inside the transaction so a manual update that
// raced the poll wins: a cleared or rewritten schedule is simply honored.
func (l *Loop) fire(ctx context.Context, orderID int64) error {
	return l.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.NextTransitionAt == nil || o.NextTransitionTo == nil {
			return nil
		}
		if time.Now().Before(*o.NextTransitionAt) {
			return nil
		}
		if o.Status.Terminal() {
			return r.Orders().SetNextTransition(ctx, o.ID, nil, nil)
		}

		next := *o.NextTransitionTo
		if err := r.Orders().UpdateStatus(ctx, o.ID, next); err != nil {
			return err
		}
		if err := r.History().Append(ctx, model.StatusHistory{
			PedidoID:   o.ID,
			Status:     next,
			Observacao: "Atualização automática",
			Automatico: true,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}

		if err := enqueueStatusEvent(ctx, r, o, next); err != nil {
			log.Printf("[scheduler] outbox pedido %d: %v", o.ID, err)
		}

		o.Status = next
		return Arm(ctx, r, o)
	})
}

func enqueueStatusEvent(ctx context.Context, r repo.TxRepos, o model.Order, next model.OrderStatus) error {
	payload := `{"numeroPedido":"` + o.NumeroPedido + `","status":"` + string(next) + `"}`
	return r.Outbox().Enqueue(ctx, model.OutboxEvent{
		PedidoID:      o.ID,
		Kind:          model.OutboxStatusAlterado,
		PayloadJSON:   payload,
		NextAttemptAt: time.Now(),
	})
}
