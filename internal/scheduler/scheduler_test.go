package scheduler

import (
	"context"
	"testing"
	"time"

	"pixstore/internal/domain/model"
	"pixstore/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoop(store *mocks.InMemoryStore) *Loop {
	return NewLoop(&mocks.StaticTxManager{Repos: store}, time.Second)
}

func TestRecoverArmsUnscheduledOrders(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusConfirmado, model.StatusPreparando, 30)
	id := store.SeedOrder(model.Order{NumeroPedido: "PED-AAA11111", Status: model.StatusConfirmado})

	loop := newLoop(store)
	require.NoError(t, loop.Recover(context.Background()))

	o := store.OrdersByID[id]
	require.NotNil(t, o.NextTransitionAt)
	require.NotNil(t, o.NextTransitionTo)
	assert.Equal(t, model.StatusPreparando, *o.NextTransitionTo)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *o.NextTransitionAt, 5*time.Second)
}

func TestRecoverIsIdempotent(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusConfirmado, model.StatusPreparando, 30)
	id := store.SeedOrder(model.Order{NumeroPedido: "PED-AAA11111", Status: model.StatusConfirmado})

	loop := newLoop(store)
	require.NoError(t, loop.Recover(context.Background()))
	armedAt := *store.OrdersByID[id].NextTransitionAt

	// A second scan leaves the already-armed order alone.
	require.NoError(t, loop.Recover(context.Background()))
	assert.Equal(t, armedAt, *store.OrdersByID[id].NextTransitionAt)
}

func TestRecoverSkipsTerminalOrders(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusConfirmado, model.StatusPreparando, 30)
	delivered := store.SeedOrder(model.Order{NumeroPedido: "PED-BBB22222", Status: model.StatusEntregue})
	cancelled := store.SeedOrder(model.Order{NumeroPedido: "PED-CCC33333", Status: model.StatusCancelado})

	loop := newLoop(store)
	require.NoError(t, loop.Recover(context.Background()))

	assert.Nil(t, store.OrdersByID[delivered].NextTransitionAt)
	assert.Nil(t, store.OrdersByID[cancelled].NextTransitionAt)
}

func TestTickFiresDueTransition(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusPreparando, model.StatusGuardando, 10)

	past := time.Now().Add(-time.Minute)
	to := model.StatusPreparando
	id := store.SeedOrder(model.Order{
		NumeroPedido:     "PED-AAA11111",
		Status:           model.StatusConfirmado,
		NextTransitionAt: &past,
		NextTransitionTo: &to,
	})

	loop := newLoop(store)
	require.NoError(t, loop.Tick(context.Background()))

	o := store.OrdersByID[id]
	assert.Equal(t, model.StatusPreparando, o.Status)

	hist := store.HistoryFor(id)
	require.Len(t, hist, 1)
	assert.Equal(t, model.StatusPreparando, hist[0].Status)
	assert.True(t, hist[0].Automatico)
	assert.Equal(t, "Atualização automática", hist[0].Observacao)

	// Chained onto the next hop, not yet due.
	require.NotNil(t, o.NextTransitionTo)
	assert.Equal(t, model.StatusGuardando, *o.NextTransitionTo)
	assert.True(t, o.NextTransitionAt.After(time.Now()))

	require.Len(t, store.OutboxRows, 1)
	assert.Equal(t, model.OutboxStatusAlterado, store.OutboxRows[0].Kind)

	// The freshly armed transition must not fire again on the next tick.
	require.NoError(t, loop.Tick(context.Background()))
	assert.Equal(t, model.StatusPreparando, store.OrdersByID[id].Status)
	assert.Len(t, store.HistoryFor(id), 1)
}

func TestTickStopsAtUnmappedStatus(t *testing.T) {
	store := mocks.NewInMemoryStore()
	// No transition row for preparando: the chain ends there.

	past := time.Now().Add(-time.Minute)
	to := model.StatusPreparando
	id := store.SeedOrder(model.Order{
		NumeroPedido:     "PED-AAA11111",
		Status:           model.StatusConfirmado,
		NextTransitionAt: &past,
		NextTransitionTo: &to,
	})

	loop := newLoop(store)
	require.NoError(t, loop.Tick(context.Background()))

	o := store.OrdersByID[id]
	assert.Equal(t, model.StatusPreparando, o.Status)
	assert.Nil(t, o.NextTransitionAt)
	assert.Nil(t, o.NextTransitionTo)
}

func TestTickSkipsFutureTransitions(t *testing.T) {
	store := mocks.NewInMemoryStore()

	future := time.Now().Add(time.Hour)
	to := model.StatusPreparando
	id := store.SeedOrder(model.Order{
		NumeroPedido:     "PED-AAA11111",
		Status:           model.StatusConfirmado,
		NextTransitionAt: &future,
		NextTransitionTo: &to,
	})

	loop := newLoop(store)
	require.NoError(t, loop.Tick(context.Background()))

	assert.Equal(t, model.StatusConfirmado, store.OrdersByID[id].Status)
	assert.Empty(t, store.HistoryFor(id))
}

func TestFireHonorsClearedSchedule(t *testing.T) {
	store := mocks.NewInMemoryStore()
	id := store.SeedOrder(model.Order{NumeroPedido: "PED-AAA11111", Status: model.StatusConfirmado})

	// Schedule cleared by a manual write between poll and apply.
	loop := newLoop(store)
	require.NoError(t, loop.fire(context.Background(), id))

	assert.Equal(t, model.StatusConfirmado, store.OrdersByID[id].Status)
	assert.Empty(t, store.HistoryFor(id))
}

func TestFireClearsScheduleOnTerminalOrder(t *testing.T) {
	store := mocks.NewInMemoryStore()

	past := time.Now().Add(-time.Minute)
	to := model.StatusPreparando
	id := store.SeedOrder(model.Order{
		NumeroPedido:     "PED-AAA11111",
		Status:           model.StatusCancelado,
		NextTransitionAt: &past,
		NextTransitionTo: &to,
	})

	loop := newLoop(store)
	require.NoError(t, loop.fire(context.Background(), id))

	o := store.OrdersByID[id]
	assert.Equal(t, model.StatusCancelado, o.Status)
	assert.Nil(t, o.NextTransitionAt)
	assert.Nil(t, o.NextTransitionTo)
	assert.Empty(t, store.HistoryFor(id))
}

func TestArmClearsColumnsForTerminalStatus(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusConfirmado, model.StatusPreparando, 30)

	at := time.Now().Add(time.Hour)
	to := model.StatusPreparando
	id := store.SeedOrder(model.Order{
		NumeroPedido:     "PED-AAA11111",
		Status:           model.StatusEntregue,
		NextTransitionAt: &at,
		NextTransitionTo: &to,
	})

	o := *store.OrdersByID[id]
	require.NoError(t, Arm(context.Background(), store, o))

	assert.Nil(t, store.OrdersByID[id].NextTransitionAt)
	assert.Nil(t, store.OrdersByID[id].NextTransitionTo)
}
