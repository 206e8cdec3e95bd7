package usecase

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"time"

	"pixstore/internal/domain/model"
	"pixstore/internal/gateway"
	repo "pixstore/internal/repository"
	"pixstore/internal/scheduler"
)

// Paid amount may differ from the order total by at most 1 centavo.
const amountToleranceCentavos = 1

var numeroPedidoRe = regexp.MustCompile(`PED-[A-Z0-9]{8}`)

// WebhookUsecase converges an order's paid/status fields with the
// gateway's authoritative payment state. It never returns an error the
// handler would surface: webhooks are acknowledged with 200 regardless,
// so failures here are observability-only.
type WebhookUsecase struct {
	tx  repo.TransactionManager
	now func() time.Time
}

func NewWebhookUsecase(tx repo.TransactionManager) *WebhookUsecase {
	return &WebhookUsecase{tx: tx, now: time.Now}
}

// ConfirmPayment processes one normalized webhook event. Duplicate
// deliveries, unknown orders and amount mismatches all resolve to a
// silent acknowledgement.
func (u *WebhookUsecase) ConfirmPayment(ctx context.Context, ev gateway.CommonEvent) error {
	if !ev.Completed() {
		return nil
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, found, err := u.findOrder(ctx, r, ev)
		if err != nil {
			log.Printf("[webhook:%s] lookup txid %s: %v", ev.Provider, ev.TransactionID, err)
			return nil
		}
		if !found {
			log.Printf("[webhook:%s] nenhum pedido para txid %s", ev.Provider, ev.TransactionID)
			return nil
		}

		// Duplicate delivery guard.
		if o.Paid {
			return nil
		}

		diff := ev.AmountCentavos - o.ValorTotal
		if diff < 0 {
			diff = -diff
		}
		if diff > amountToleranceCentavos {
			log.Printf("[webhook:%s] valor divergente no pedido %s: recebido %d, esperado %d",
				ev.Provider, o.NumeroPedido, ev.AmountCentavos, o.ValorTotal)
			return nil
		}

		paidAt := u.now()
		if ev.PaidAt != nil {
			paidAt = *ev.PaidAt
		}

		if err := r.Orders().MarkPaid(ctx, o.ID, paidAt); err != nil {
			log.Printf("[webhook:%s] marcar pago pedido %s: %v", ev.Provider, o.NumeroPedido, err)
			return nil
		}

		if err := r.History().Append(ctx, model.StatusHistory{
			PedidoID:   o.ID,
			Status:     model.StatusConfirmado,
			Observacao: "Pagamento confirmado via " + ev.Provider,
			Automatico: true,
			CreatedAt:  paidAt,
		}); err != nil {
			log.Printf("[webhook:%s] histórico pedido %s: %v", ev.Provider, o.NumeroPedido, err)
		}

		o.Paid = true
		o.Status = model.StatusConfirmado
		if err := scheduler.Arm(ctx, r, o); err != nil {
			log.Printf("[webhook:%s] agendar pedido %s: %v", ev.Provider, o.NumeroPedido, err)
		}

		u.enqueueSideEffects(ctx, r, o, paidAt)
		return nil
	})
}

// findOrder matches by txid first, then falls back to the order number
// the vendor echoed (or embedded inside its identifier).
func (u *WebhookUsecase) findOrder(ctx context.Context, r repo.TxRepos, ev gateway.CommonEvent) (model.Order, bool, error) {
	if ev.TransactionID != "" {
		o, found, err := r.Orders().FindByTxID(ctx, ev.TransactionID)
		if err != nil || found {
			return o, found, err
		}
	}

	numero := ev.ExternalID
	if numero == "" {
		numero = numeroPedidoRe.FindString(ev.TransactionID + " " + ev.EndToEndID)
	}
	if numero == "" {
		return model.Order{}, false, nil
	}
	return r.Orders().FindByNumeroPedido(ctx, numero)
}

func (u *WebhookUsecase) enqueueSideEffects(ctx context.Context, r repo.TxRepos, o model.Order, paidAt time.Time) {
	payload, err := json.Marshal(map[string]interface{}{
		"numeroPedido": o.NumeroPedido,
		"nomeCliente":  o.NomeCliente,
		"telefone":     o.Telefone,
		"valorTotal":   toReais(o.ValorTotal),
		"itens":        o.Itens,
		"endereco":     o.Endereco,
		"paidAt":       paidAt,
	})
	if err != nil {
		log.Printf("[webhook] montar payload pedido %s: %v", o.NumeroPedido, err)
		return
	}

	for _, kind := range []model.OutboxKind{model.OutboxPedidoPagoNotificar, model.OutboxBaixaEstoque} {
		if err := r.Outbox().Enqueue(ctx, model.OutboxEvent{
			PedidoID:      o.ID,
			Kind:          kind,
			PayloadJSON:   string(payload),
			NextAttemptAt: u.now(),
		}); err != nil {
			log.Printf("[webhook] outbox %s pedido %s: %v", kind, o.NumeroPedido, err)
		}
	}
}
