// Package outbox drains persisted side-effect intents (logistics
// notification, stock deduction, status events) so a crash between
// payment confirmation and its side effects cannot lose them.
package outbox

import (
	"context"
	"log"
	"time"

	"pixstore/internal/domain/model"
	"pixstore/internal/infra/logistics"
	"pixstore/internal/infra/rabbitmq"
	repo "pixstore/internal/repository"
)

const (
	batchSize   = 50
	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour
)

// routing keys on the topic exchange, one per event kind
var routingKeys = map[model.OutboxKind]string{
	model.OutboxPedidoPagoNotificar: "pedido.pago",
	model.OutboxBaixaEstoque:        "pedido.baixa_estoque",
	model.OutboxStatusAlterado:      "pedido.status",
}

type Worker struct {
	events    repo.OutboxRepository
	logistics logistics.NotifierInterface
	publisher rabbitmq.PublisherInterface
	interval  time.Duration
	now       func() time.Time
}

// NewWorker accepts nil logistics and publisher; a kind with no live
// destination is marked processed so the queue cannot grow unbounded.
func NewWorker(events repo.OutboxRepository, l logistics.NotifierInterface, p rabbitmq.PublisherInterface, interval time.Duration) *Worker {
	return &Worker{events: events, logistics: l, publisher: p, interval: interval, now: time.Now}
}

// Run drains due events until the context is cancelled. Failures are
// retried with capped exponential backoff; the loop itself never dies.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				log.Printf("[outbox] tick: %v", err)
			}
		}
	}
}

func (w *Worker) Tick(ctx context.Context) error {
	due, err := w.events.ListDue(ctx, w.now(), batchSize)
	if err != nil {
		return err
	}

	for _, ev := range due {
		if err := w.dispatch(ctx, ev); err != nil {
			next := w.now().Add(backoff(ev.Attempts))
			if merr := w.events.MarkFailed(ctx, ev.ID, next, err.Error()); merr != nil {
				log.Printf("[outbox] marcar falha evento %d: %v", ev.ID, merr)
			}
			log.Printf("[outbox] evento %d (%s) falhou (tentativa %d): %v", ev.ID, ev.Kind, ev.Attempts+1, err)
			continue
		}
		if err := w.events.MarkProcessed(ctx, ev.ID, w.now()); err != nil {
			log.Printf("[outbox] marcar processado evento %d: %v", ev.ID, err)
		}
	}
	return nil
}

func (w *Worker) dispatch(ctx context.Context, ev model.OutboxEvent) error {
	delivered := false

	if w.publisher != nil {
		if key, ok := routingKeys[ev.Kind]; ok {
			if err := w.publisher.Publish(ctx, key, rawJSON(ev.PayloadJSON)); err != nil {
				return err
			}
			delivered = true
		}
	}

	if ev.Kind == model.OutboxPedidoPagoNotificar && w.logistics != nil {
		if err := w.logistics.NotifyPaid(ctx, []byte(ev.PayloadJSON)); err != nil {
			return err
		}
		delivered = true
	}

	if !delivered {
		log.Printf("[outbox] evento %d (%s) sem destino configurado, descartando", ev.ID, ev.Kind)
	}
	return nil
}

// rawJSON forwards the stored payload without a second marshal pass.
type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) { return []byte(r), nil }

func backoff(attempts int) time.Duration {
	d := baseBackoff
	for i := 0; i < attempts && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
