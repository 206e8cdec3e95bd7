package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pixstore/internal/domain/model"
	"pixstore/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIssuer struct{}

func (staticIssuer) Issue(userID int64, role model.Role, telefone string, now time.Time) (string, time.Time, error) {
	return "signed-token", now.Add(24 * time.Hour), nil
}

func TestCreatePinAndLogin(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	out, err := uc.CreatePin(context.Background(), CreatePinInput{
		Telefone: "(11) 99999-8888",
		Pin:      "1234",
		Nome:     "Maria Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, "11999998888", out.Telefone)
	assert.Equal(t, string(model.RoleUser), out.Role)

	// Hash only, never the raw PIN.
	u := store.UsersByID[out.ID]
	require.NotNil(t, u)
	assert.NotEmpty(t, u.PinHash)
	assert.NotContains(t, u.PinHash, "1234")

	login, err := uc.Login(context.Background(), "11999998888", "1234")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", login.Token)
	assert.Equal(t, out.ID, login.User.ID)
}

func TestCreatePinReplacesExisting(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	first, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "1234"})
	require.NoError(t, err)

	second, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "5678"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.UsersByID, 1)

	_, err = uc.Login(context.Background(), "11999998888", "1234")
	require.Error(t, err)
	_, err = uc.Login(context.Background(), "11999998888", "5678")
	assert.NoError(t, err)
}

func TestCreatePinValidation(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	for _, pin := range []string{"", "12", "12345", "12a4"} {
		_, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: pin})
		require.Error(t, err, pin)
		he, ok := AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
	}

	_, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "123", Pin: "1234"})
	require.Error(t, err)
}

func TestCreatePinBacksfillsOrderOwnership(t *testing.T) {
	store := mocks.NewInMemoryStore()
	orderID := seedUnpaidOrder(store, "tx-1", 8500)
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	out, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "1234"})
	require.NoError(t, err)

	o := store.OrdersByID[orderID]
	require.NotNil(t, o.UserID)
	assert.Equal(t, out.ID, *o.UserID)
}

func TestLoginWrongPin(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	_, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "1234"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "11999998888", "4321")
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}

func TestLoginUnknownPhone(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	_, err := uc.Login(context.Background(), "11999998888", "1234")
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	// Same answer as a wrong PIN: no account enumeration.
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}

func TestVerifyPin(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	_, err := uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "1234"})
	require.NoError(t, err)

	ok, err := uc.VerifyPin(context.Background(), "11999998888", "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.VerifyPin(context.Background(), "11999998888", "4321")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.VerifyPin(context.Background(), "21988887777", "1234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify(t *testing.T) {
	store := mocks.NewInMemoryStore()
	uc := NewUserUsecase(&mocks.StaticTxManager{Repos: store}, staticIssuer{})

	out, err := uc.Verify(context.Background(), "11999998888")
	require.NoError(t, err)
	assert.False(t, out.Exists)
	assert.False(t, out.TemPin)

	_, err = uc.CreatePin(context.Background(), CreatePinInput{Telefone: "11999998888", Pin: "1234"})
	require.NoError(t, err)

	out, err = uc.Verify(context.Background(), "11999998888")
	require.NoError(t, err)
	assert.True(t, out.Exists)
	assert.True(t, out.TemPin)
}
