// Package mocks provides in-memory repository implementations for unit
// tests. State lives in plain maps; no goroutine safety is promised.
package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"
)

// StaticTxManager runs the callback against a fixed set of repos. There
// is no rollback: tests assert on final state only.
type StaticTxManager struct {
	Repos repo.TxRepos
}

func (m *StaticTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

// InMemoryStore implements repo.TxRepos over maps.
type InMemoryStore struct {
	OrdersByID     map[int64]*model.Order
	HistoryRows    []model.StatusHistory
	UsersByID      map[int64]*model.User
	TransitionRows map[model.OrderStatus]model.StatusTransition
	OutboxRows     []*model.OutboxEvent

	nextOrderID  int64
	nextUserID   int64
	nextOutboxID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		OrdersByID:     make(map[int64]*model.Order),
		UsersByID:      make(map[int64]*model.User),
		TransitionRows: make(map[model.OrderStatus]model.StatusTransition),
	}
}

func (s *InMemoryStore) Orders() repo.OrderRepository           { return (*ordersMem)(s) }
func (s *InMemoryStore) History() repo.StatusHistoryRepository  { return (*historyMem)(s) }
func (s *InMemoryStore) Users() repo.UserRepository             { return (*usersMem)(s) }
func (s *InMemoryStore) Transitions() repo.TransitionRepository { return (*transitionsMem)(s) }
func (s *InMemoryStore) Outbox() repo.OutboxRepository          { return (*outboxMem)(s) }

// SeedOrder inserts an order and returns its id.
func (s *InMemoryStore) SeedOrder(o model.Order) int64 {
	s.nextOrderID++
	o.ID = s.nextOrderID
	s.OrdersByID[o.ID] = &o
	return o.ID
}

// SeedTransition registers an active transition row.
func (s *InMemoryStore) SeedTransition(from, to model.OrderStatus, minutes int) {
	s.TransitionRows[from] = model.StatusTransition{
		StatusAtual:   from,
		ProximoStatus: to,
		MinutosEspera: minutes,
		Ativo:         true,
	}
}

// HistoryFor returns the appended entries for one order, oldest first.
func (s *InMemoryStore) HistoryFor(orderID int64) []model.StatusHistory {
	var out []model.StatusHistory
	for _, h := range s.HistoryRows {
		if h.PedidoID == orderID {
			out = append(out, h)
		}
	}
	return out
}

// ---- orders ----

type ordersMem InMemoryStore

func (s *ordersMem) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return *o, nil
}

func (s *ordersMem) FindByTxID(ctx context.Context, txid string) (model.Order, bool, error) {
	for _, o := range s.OrdersByID {
		if o.TxID == txid {
			return *o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (s *ordersMem) FindByNumeroPedido(ctx context.Context, numero string) (model.Order, bool, error) {
	for _, o := range s.OrdersByID {
		if o.NumeroPedido == numero {
			return *o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (s *ordersMem) ListByTelefone(ctx context.Context, telefone string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.OrdersByID {
		if o.Telefone == telefone {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *ordersMem) Create(ctx context.Context, order model.Order) (int64, error) {
	return (*InMemoryStore)(s).SeedOrder(order), nil
}

func (s *ordersMem) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (s *ordersMem) MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) error {
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Paid = true
	o.PaidAt = &paidAt
	o.Status = model.StatusConfirmado
	o.UpdatedAt = time.Now()
	return nil
}

func (s *ordersMem) LinkUser(ctx context.Context, telefone string, userID int64) error {
	for _, o := range s.OrdersByID {
		if o.Telefone == telefone && o.UserID == nil {
			id := userID
			o.UserID = &id
		}
	}
	return nil
}

func (s *ordersMem) SetNextTransition(ctx context.Context, orderID int64, at *time.Time, to *model.OrderStatus) error {
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.NextTransitionAt = at
	o.NextTransitionTo = to
	return nil
}

func (s *ordersMem) ListDueTransitions(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.OrdersByID {
		if o.NextTransitionAt != nil && !o.NextTransitionAt.After(now) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ordersMem) ListUnscheduledActive(ctx context.Context, terminal []model.OrderStatus) ([]model.Order, error) {
	isTerminal := func(st model.OrderStatus) bool {
		for _, t := range terminal {
			if st == t {
				return true
			}
		}
		return false
	}

	var out []model.Order
	for _, o := range s.OrdersByID {
		if o.NextTransitionAt == nil && !isTerminal(o.Status) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ordersMem) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range s.OrdersByID {
		if f.Status != "" && !strings.EqualFold(string(o.Status), f.Status) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

// ---- history ----

type historyMem InMemoryStore

func (s *historyMem) Append(ctx context.Context, entry model.StatusHistory) error {
	entry.ID = int64(len(s.HistoryRows) + 1)
	s.HistoryRows = append(s.HistoryRows, entry)
	return nil
}

func (s *historyMem) ListByPedidoID(ctx context.Context, pedidoID int64) ([]model.StatusHistory, error) {
	return (*InMemoryStore)(s).HistoryFor(pedidoID), nil
}

// ---- users ----

type usersMem InMemoryStore

func (s *usersMem) Create(ctx context.Context, user *model.User) error {
	s.nextUserID++
	user.ID = s.nextUserID
	u := *user
	s.UsersByID[u.ID] = &u
	return nil
}

func (s *usersMem) FindByID(ctx context.Context, userID int64) (model.User, error) {
	u, ok := s.UsersByID[userID]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return *u, nil
}

func (s *usersMem) FindByTelefone(ctx context.Context, telefone string) (model.User, bool, error) {
	for _, u := range s.UsersByID {
		if u.Telefone == telefone {
			return *u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (s *usersMem) Update(ctx context.Context, user *model.User) error {
	if _, ok := s.UsersByID[user.ID]; !ok {
		return repo.ErrNotFound
	}
	u := *user
	s.UsersByID[u.ID] = &u
	return nil
}

// ---- transitions ----

type transitionsMem InMemoryStore

func (s *transitionsMem) FindActive(ctx context.Context, status model.OrderStatus) (model.StatusTransition, bool, error) {
	t, ok := s.TransitionRows[status]
	if !ok || !t.Ativo {
		return model.StatusTransition{}, false, nil
	}
	return t, true, nil
}

func (s *transitionsMem) ListActive(ctx context.Context) ([]model.StatusTransition, error) {
	var out []model.StatusTransition
	for _, t := range s.TransitionRows {
		if t.Ativo {
			out = append(out, t)
		}
	}
	return out, nil
}

// ---- outbox ----

type outboxMem InMemoryStore

func (s *outboxMem) Enqueue(ctx context.Context, event model.OutboxEvent) error {
	s.nextOutboxID++
	event.ID = s.nextOutboxID
	s.OutboxRows = append(s.OutboxRows, &event)
	return nil
}

func (s *outboxMem) ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxEvent, error) {
	var out []model.OutboxEvent
	for _, e := range s.OutboxRows {
		if e.ProcessedAt == nil && !e.NextAttemptAt.After(now) {
			out = append(out, *e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *outboxMem) MarkProcessed(ctx context.Context, eventID int64, at time.Time) error {
	for _, e := range s.OutboxRows {
		if e.ID == eventID {
			t := at
			e.ProcessedAt = &t
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *outboxMem) MarkFailed(ctx context.Context, eventID int64, nextAttempt time.Time, lastError string) error {
	for _, e := range s.OutboxRows {
		if e.ID == eventID {
			e.Attempts++
			e.NextAttemptAt = nextAttempt
			e.LastError = lastError
			return nil
		}
	}
	return repo.ErrNotFound
}

// SettingsRepoStub returns a fixed settings row (or not-found).
type SettingsRepoStub struct {
	Settings model.StoreSettings
	Missing  bool
}

func (s *SettingsRepoStub) Get(ctx context.Context) (model.StoreSettings, error) {
	if s.Missing {
		return model.StoreSettings{}, repo.ErrNotFound
	}
	return s.Settings, nil
}
