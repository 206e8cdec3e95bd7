package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixstore/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bspayStub struct {
	tokenCalls  int
	chargeCalls int
	failCharge  int // HTTP status to answer charge calls with, 0 = success
}

func (s *bspayStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-abc",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/pix/qrcode", func(w http.ResponseWriter, r *http.Request) {
		s.chargeCalls++
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if s.failCharge != 0 {
			w.WriteHeader(s.failCharge)
			w.Write([]byte(`{"message":"token revogado"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactionId": "bs-tx-1",
			"status":        "PENDING",
			"qrcode":        "00020126pix-payload",
		})
	})
	return mux
}

func newBSPayUnderTest(t *testing.T, stub *bspayStub) (*BSPay, *TokenCache, *httptest.Server) {
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	tokens := NewTokenCache()
	g := NewBSPay(model.GatewayConfig{
		Provider:     ProviderBSPay,
		BaseURL:      srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		Ativo:        true,
	}, srv.Client(), tokens)
	return g, tokens, srv
}

func chargeInput() CreateChargeInput {
	return CreateChargeInput{
		AmountCentavos: 8500,
		ExternalID:     "PED-ABC12345",
		Payer: Payer{
			Nome: "Maria Silva",
			CPF:  "11144477735",
		},
	}
}

func TestBSPayCreateCharge(t *testing.T) {
	stub := &bspayStub{}
	g, _, _ := newBSPayUnderTest(t, stub)

	charge, err := g.CreateCharge(context.Background(), chargeInput())
	require.NoError(t, err)

	assert.Equal(t, "bs-tx-1", charge.TxID)
	assert.Equal(t, StatusPending, charge.Status)
	assert.Equal(t, "00020126pix-payload", charge.PixCopiaECola)
	// No vendor image: rendered locally from the copia-e-cola payload.
	assert.Contains(t, charge.ImagemQrcode, "data:image/png;base64,")
	assert.Equal(t, 1, stub.tokenCalls)
}

func TestBSPayCreateChargeReusesCachedToken(t *testing.T) {
	stub := &bspayStub{}
	g, _, _ := newBSPayUnderTest(t, stub)

	_, err := g.CreateCharge(context.Background(), chargeInput())
	require.NoError(t, err)
	_, err = g.CreateCharge(context.Background(), chargeInput())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.tokenCalls)
	assert.Equal(t, 2, stub.chargeCalls)
}

func TestBSPayCreateChargeInvalidAmount(t *testing.T) {
	stub := &bspayStub{}
	g, _, _ := newBSPayUnderTest(t, stub)

	in := chargeInput()
	in.AmountCentavos = 0
	_, err := g.CreateCharge(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	in.AmountCentavos = MaxAmountCentavos + 1
	_, err = g.CreateCharge(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Equal(t, 0, stub.chargeCalls)
}

func TestBSPayUnauthorizedInvalidatesToken(t *testing.T) {
	stub := &bspayStub{failCharge: http.StatusUnauthorized}
	g, tokens, _ := newBSPayUnderTest(t, stub)

	_, err := g.CreateCharge(context.Background(), chargeInput())
	require.Error(t, err)

	ve, ok := AsVendorError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ve.StatusCode)
	assert.Contains(t, ve.Message, "token revogado")

	_, cached := tokens.Get(ProviderBSPay)
	assert.False(t, cached)

	// Next call must re-authenticate instead of replaying the dead token.
	stub.failCharge = 0
	_, err = g.CreateCharge(context.Background(), chargeInput())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.tokenCalls)
}
