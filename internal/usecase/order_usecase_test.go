package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"pixstore/internal/domain/model"
	"pixstore/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		TxID:        "tx-abc",
		Gateway:     "codexpay",
		NomeCliente: "Maria Silva",
		CPFCliente:  "111.444.777-35",
		Telefone:    "(11) 99999-8888",
		Endereco: model.Address{
			CEP:    "01310-100",
			Rua:    "Av. Paulista",
			Numero: "1000",
			Cidade: "São Paulo",
			Estado: "SP",
		},
		Itens: []ItemInput{
			{Nome: "Brigadeiro", Quantidade: 10, PrecoUnitario: 3.50},
			{Nome: "Bolo de pote", Quantidade: 2, PrecoUnitario: 25.00},
		},
		ValorTotal: 85.00,
	}
}

func TestCreateOrder(t *testing.T) {
	store := mocks.NewInMemoryStore()
	store.SeedTransition(model.StatusConfirmado, model.StatusPreparando, 30)
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	out, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.NumeroPedido, "PED-"))
	assert.Len(t, out.NumeroPedido, 12)
	assert.Equal(t, string(model.StatusConfirmado), out.Status)
	assert.Equal(t, 85.00, out.ValorTotal)
	assert.Equal(t, "11999998888", out.Telefone)

	o := store.OrdersByID[out.ID]
	require.NotNil(t, o)
	assert.Equal(t, int64(8500), o.ValorTotal)
	assert.Equal(t, "11144477735", o.CPFCliente)
	assert.Equal(t, int64(350), o.Itens[0].PrecoUnitario)
	assert.False(t, o.Paid)

	// First automatic transition is armed at creation.
	require.NotNil(t, o.NextTransitionAt)
	require.NotNil(t, o.NextTransitionTo)
	assert.Equal(t, model.StatusPreparando, *o.NextTransitionTo)

	hist := store.HistoryFor(out.ID)
	require.Len(t, hist, 1)
	assert.Equal(t, model.StatusConfirmado, hist[0].Status)
	assert.Equal(t, "Pedido criado", hist[0].Observacao)
	assert.False(t, hist[0].Automatico)
}

func TestCreateOrderIdempotentOnTxID(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	first, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)
	second, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.NumeroPedido, second.NumeroPedido)
	assert.Len(t, store.OrdersByID, 1)
	assert.Len(t, store.HistoryFor(first.ID), 1)
}

func TestCreateOrderNoTransitionConfigured(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	out, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)

	o := store.OrdersByID[out.ID]
	assert.Nil(t, o.NextTransitionAt)
	assert.Nil(t, o.NextTransitionTo)
}

func TestCreateOrderBacksfillsExistingUser(t *testing.T) {
	store := mocks.NewInMemoryStore()
	user := model.User{Telefone: "11999998888", Role: model.RoleUser}
	require.NoError(t, store.Users().Create(context.Background(), &user))
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	out, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)

	o := store.OrdersByID[out.ID]
	require.NotNil(t, o.UserID)
	assert.Equal(t, user.ID, *o.UserID)
}

func TestCreateOrderValidation(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"empty name", func(in *CreateOrderInput) { in.NomeCliente = "  " }},
		{"short phone", func(in *CreateOrderInput) { in.Telefone = "119999" }},
		{"no items", func(in *CreateOrderInput) { in.Itens = nil }},
		{"zero total", func(in *CreateOrderInput) { in.ValorTotal = 0 }},
		{"zero quantity", func(in *CreateOrderInput) { in.Itens[0].Quantidade = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)
			_, err := uc.CreateOrder(context.Background(), in)
			require.Error(t, err)
			he, ok := AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
		})
	}

	assert.Empty(t, store.OrdersByID)
}

func TestCreateOrderInvalidCPFIsAdvisoryOnly(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	in := validCreateInput()
	in.CPFCliente = "11111111111"
	_, err := uc.CreateOrder(context.Background(), in)
	assert.NoError(t, err)
}

func TestGetStatus(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	out, err := uc.CreateOrder(context.Background(), validCreateInput())
	require.NoError(t, err)

	status, err := uc.GetStatus(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmado), status.Status)
	require.Len(t, status.Historico, 1)
	assert.Equal(t, "Pedido criado", status.Historico[0].Observacao)
}

func TestGetStatusNotFound(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	_, err := uc.GetStatus(context.Background(), 42)
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestListByTelefone(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewOrderUsecase(&mocks.StaticTxManager{Repos: store})

	in := validCreateInput()
	_, err := uc.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	in.TxID = "tx-def"
	_, err = uc.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	orders, err := uc.ListByTelefone(context.Background(), "11 99999-8888")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = uc.ListByTelefone(context.Background(), "21988887777")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
