package usecase

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"pixstore/internal/cpf"
	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"
	"pixstore/internal/scheduler"

	"github.com/google/uuid"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type ItemInput struct {
	Nome          string  `json:"nome"`
	Quantidade    int64   `json:"quantidade"`
	PrecoUnitario float64 `json:"precoUnitario"`
	Sabor         string  `json:"sabor"`
}

type CreateOrderInput struct {
	TxID        string
	E2EID       string
	Gateway     string
	NomeCliente string
	CPFCliente  string
	Telefone    string
	Endereco    model.Address
	Itens       []ItemInput
	ValorTotal  float64
}

type OrderOutput struct {
	ID           int64   `json:"id"`
	NumeroPedido string  `json:"numeroPedido"`
	Status       string  `json:"status"`
	ValorTotal   float64 `json:"valorTotal"`
	Telefone     string  `json:"telefone"`
}

type HistoryOutput struct {
	Status     string    `json:"status"`
	Observacao string    `json:"observacao"`
	Automatico bool      `json:"automatico"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderStatusOutput struct {
	Status    string          `json:"status"`
	Historico []HistoryOutput `json:"historico"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateOrder persists the checkout snapshot, seeds the history and arms
// the first automatic transition. Creating twice with the same txid
// returns the existing order.
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	nome := strings.TrimSpace(in.NomeCliente)
	if nome == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "nomeCliente obrigatório")
	}

	telefone := cpf.Strip(in.Telefone)
	if len(telefone) < 10 || len(telefone) > 13 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "telefone inválido")
	}

	if len(in.Itens) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "itens obrigatórios")
	}

	total := toCentavos(in.ValorTotal)
	if total <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "valorTotal inválido")
	}

	// Lenient on purpose: a bad CPF is logged, never blocks the sale.
	if in.CPFCliente != "" && !cpf.Valid(in.CPFCliente) {
		log.Printf("[pedidos] warning: CPF inválido no pedido de %s", telefone)
	}

	itens := make(model.OrderItems, 0, len(in.Itens))
	for _, it := range in.Itens {
		if it.Quantidade <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "quantidade inválida")
		}
		itens = append(itens, model.OrderItem{
			Nome:          it.Nome,
			Quantidade:    it.Quantidade,
			PrecoUnitario: toCentavos(it.PrecoUnitario),
			Sabor:         it.Sabor,
		})
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if in.TxID != "" {
			existing, found, err := r.Orders().FindByTxID(ctx, in.TxID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if found {
				out = toOrderOutput(existing)
				return nil
			}
		}

		now := time.Now()
		order := model.Order{
			NumeroPedido: newNumeroPedido(),
			TxID:         in.TxID,
			E2EID:        in.E2EID,
			Gateway:      in.Gateway,
			NomeCliente:  nome,
			CPFCliente:   cpf.Strip(in.CPFCliente),
			Telefone:     telefone,
			Endereco:     in.Endereco,
			Itens:        itens,
			ValorTotal:   total,
			Status:       model.StatusConfirmado,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		// Backfill ownership when the phone already has an account.
		if user, found, err := r.Users().FindByTelefone(ctx, telefone); err == nil && found {
			order.UserID = &user.ID
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		if err := r.History().Append(ctx, model.StatusHistory{
			PedidoID:   orderID,
			Status:     model.StatusConfirmado,
			Observacao: "Pedido criado",
			Automatico: false,
			CreatedAt:  now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// Scheduling problems must not fail the checkout.
		if err := scheduler.Arm(ctx, r, order); err != nil {
			log.Printf("[pedidos] agendar transição do pedido %d: %v", orderID, err)
		}

		out = toOrderOutput(order)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetStatus(ctx context.Context, orderID int64) (OrderStatusOutput, error) {
	if orderID <= 0 {
		return OrderStatusOutput{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	var out OrderStatusOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		hist, err := r.History().ListByPedidoID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		entries := make([]HistoryOutput, 0, len(hist))
		for _, h := range hist {
			entries = append(entries, HistoryOutput{
				Status:     string(h.Status),
				Observacao: h.Observacao,
				Automatico: h.Automatico,
				CreatedAt:  h.CreatedAt,
			})
		}

		out = OrderStatusOutput{
			Status:    string(o.Status),
			Historico: entries,
			UpdatedAt: o.UpdatedAt,
		}
		return nil
	})

	if err != nil {
		return OrderStatusOutput{}, err
	}
	return out, nil
}

// ListByTelefone feeds the tracking screen; callers must only pass a
// phone the requester is authenticated for.
func (u *OrderUsecase) ListByTelefone(ctx context.Context, telefone string) ([]OrderOutput, error) {
	t := cpf.Strip(telefone)
	if len(t) < 10 || len(t) > 13 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "telefone inválido")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByTelefone(ctx, t)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:           o.ID,
		NumeroPedido: o.NumeroPedido,
		Status:       string(o.Status),
		ValorTotal:   toReais(o.ValorTotal),
		Telefone:     o.Telefone,
	}
}

func newNumeroPedido() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PED-" + id[:8]
}

func toCentavos(v float64) int64 {
	if v < 0 {
		return int64(v*100 - 0.5)
	}
	return int64(v*100 + 0.5)
}

func toReais(v int64) float64 {
	return float64(v) / 100
}
