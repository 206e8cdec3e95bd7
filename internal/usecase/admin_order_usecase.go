package usecase

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"
	"pixstore/internal/scheduler"
)

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	settings repo.SettingsRepository
	now      func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager, settings repo.SettingsRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, settings: settings, now: time.Now}
}

type AdminUpdateStatusInput struct {
	Status      string
	Observacao  string
	ForceUpdate bool
}

var validStatuses = map[model.OrderStatus]bool{
	model.StatusConfirmado:      true,
	model.StatusPreparando:      true,
	model.StatusGuardando:       true,
	model.StatusPostado:         true,
	model.StatusEmTransito:      true,
	model.StatusSaiuParaEntrega: true,
	model.StatusEntregue:        true,
	model.StatusCancelado:       true,
}

// UpdateStatus is the only customer-invisible way an order changes state.
// Outside business hours it is rejected with 403 unless forceUpdate is
// set. A manual write always overwrites the scheduling columns, so any
// previously armed automatic transition is cancelled.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, in AdminUpdateStatusInput) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !validStatuses[newStatus] {
		return NewHTTPError(http.StatusBadRequest, "status inválido")
	}

	if !in.ForceUpdate {
		open, err := u.storeOpen(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro ao verificar horário")
		}
		if !open {
			return NewHTTPError(http.StatusForbidden, "loja fechada: atualização fora do horário de funcionamento")
		}
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.Status == newStatus {
			return nil
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "pedido não encontrado")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.History().Append(ctx, model.StatusHistory{
			PedidoID:   orderID,
			Status:     newStatus,
			Observacao: in.Observacao,
			Automatico: false,
			CreatedAt:  u.now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// Terminal target: clear any armed transition. Otherwise automatic
		// progression resumes from the new state.
		o.Status = newStatus
		if err := scheduler.Arm(ctx, r, o); err != nil {
			log.Printf("[admin] reagendar pedido %d: %v", orderID, err)
		}

		payload := `{"numeroPedido":"` + o.NumeroPedido + `","status":"` + string(newStatus) + `"}`
		if err := r.Outbox().Enqueue(ctx, model.OutboxEvent{
			PedidoID:      orderID,
			Kind:          model.OutboxStatusAlterado,
			PayloadJSON:   payload,
			NextAttemptAt: u.now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "página inválida")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "limite inválido")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// storeOpen treats a missing settings row as always open.
func (u *AdminOrderUsecase) storeOpen(ctx context.Context) (bool, error) {
	s, err := u.settings.Get(ctx)
	if err == repo.ErrNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return s.OpenAt(u.now())
}
