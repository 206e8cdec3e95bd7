package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pixstore/internal/domain/model"
	"pixstore/internal/mocks"
	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(t *testing.T, e *echo.Echo, provider, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/pix/"+provider+"/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func webhookTestServer(store *mocks.InMemoryStore) *echo.Echo {
	e := echo.New()
	NewWebhookHandler(usecase.NewWebhookUsecase(&mocks.StaticTxManager{Repos: store})).RegisterRoutes(e)
	return e
}

func TestWebhookConfirmsOrder(t *testing.T) {
	store := mocks.NewInMemoryStore()
	id := store.SeedOrder(model.Order{
		NumeroPedido: "PED-ABC12345",
		TxID:         "cdx-55",
		Telefone:     "11999998888",
		ValorTotal:   8500,
		Status:       model.StatusConfirmado,
	})
	e := webhookTestServer(store)

	rec := postWebhook(t, e, "codexpay", `{"transactionId":"cdx-55","status":"COMPLETED","amount":85.00,"type":"Deposit"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.True(t, store.OrdersByID[id].Paid)
}

// Vendors retry aggressively on anything but 200, so even garbage and
// unknown providers are acknowledged.
func TestWebhookAlwaysAnswers200(t *testing.T) {
	store := mocks.NewInMemoryStore()
	e := webhookTestServer(store)

	tests := []struct {
		name     string
		provider string
		body     string
	}{
		{"malformed body", "codexpay", `not json at all`},
		{"unknown provider", "acmepay", `{}`},
		{"unknown transaction", "codexpay", `{"transactionId":"ghost","status":"COMPLETED","amount":1.00}`},
		{"non-final status", "codexpay", `{"transactionId":"cdx-55","status":"PENDING","amount":85.00}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(t, e, tt.provider, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	assert.Empty(t, store.HistoryRows)
}
