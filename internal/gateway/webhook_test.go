package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBSPayWebhook(t *testing.T) {
	raw := []byte(`{
		"requestBody": {
			"transactionType": "RECEIVEPIX",
			"transactionId": "bs-tx-123",
			"external_id": "PED-ABC12345",
			"amount": 85.00,
			"status": "PAID"
		}
	}`)

	ev, err := NormalizeWebhook(ProviderBSPay, raw)
	require.NoError(t, err)

	assert.Equal(t, ProviderBSPay, ev.Provider)
	assert.Equal(t, "bs-tx-123", ev.TransactionID)
	assert.Equal(t, "PED-ABC12345", ev.ExternalID)
	assert.Equal(t, int64(8500), ev.AmountCentavos)
	assert.Equal(t, StatusPaid, ev.Status)
	assert.True(t, ev.Completed())
}

func TestNormalizeBSPayWebhookReceivePixWithoutStatus(t *testing.T) {
	raw := []byte(`{"requestBody":{"transactionType":"RECEIVEPIX","transactionId":"bs-tx-9","amount":10.50}}`)

	ev, err := NormalizeWebhook(ProviderBSPay, raw)
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, ev.Status)
	assert.Equal(t, int64(1050), ev.AmountCentavos)
}

func TestNormalizeCodexPayWebhook(t *testing.T) {
	raw := []byte(`{"transactionId":"cdx-55","status":"COMPLETED","amount":85.00,"type":"Deposit"}`)

	ev, err := NormalizeWebhook(ProviderCodexPay, raw)
	require.NoError(t, err)

	assert.Equal(t, ProviderCodexPay, ev.Provider)
	assert.Equal(t, "cdx-55", ev.TransactionID)
	assert.Equal(t, int64(8500), ev.AmountCentavos)
	assert.Equal(t, "Deposit", ev.EventType)
	assert.True(t, ev.Completed())
}

func TestNormalizeCodexPayWebhookFallsBackToID(t *testing.T) {
	raw := []byte(`{"id":"cdx-77","status":"PENDING","amount":1.00}`)

	ev, err := NormalizeWebhook(ProviderCodexPay, raw)
	require.NoError(t, err)

	assert.Equal(t, "cdx-77", ev.TransactionID)
	assert.False(t, ev.Completed())
}

func TestNormalizePoseidonWebhook(t *testing.T) {
	raw := []byte(`{"event":"TRANSACTION_PAID","transaction":{"id":"pos-1","status":"pending","amount":42.90}}`)

	ev, err := NormalizeWebhook(ProviderPoseidonPay, raw)
	require.NoError(t, err)

	// The event name wins over the nested status field.
	assert.Equal(t, StatusPaid, ev.Status)
	assert.Equal(t, "pos-1", ev.TransactionID)
	assert.Equal(t, int64(4290), ev.AmountCentavos)
}

func TestNormalizeRyzenWebhookAmountVariants(t *testing.T) {
	ev, err := NormalizeWebhook(ProviderRyzenPay, []byte(`{"idTransaction":"rz-1","status":"PAID_OUT","amount":12.34}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), ev.AmountCentavos)
	assert.True(t, ev.Completed())

	// Some callbacks carry the value field instead.
	ev, err = NormalizeWebhook(ProviderRyzenPay, []byte(`{"idTransaction":"rz-2","status":"PAID_OUT","value":"12.34"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), ev.AmountCentavos)
}

func TestNormalizeEFIWebhook(t *testing.T) {
	raw := []byte(`{"pix":[{"txid":"efi-tx-1","endToEndId":"E12345678901234567890123456789012","valor":"85.00","horario":"2025-06-01T12:00:00Z"}]}`)

	ev, err := NormalizeWebhook(ProviderEFI, raw)
	require.NoError(t, err)

	assert.Equal(t, "efi-tx-1", ev.TransactionID)
	assert.Equal(t, "E12345678901234567890123456789012", ev.EndToEndID)
	assert.Equal(t, int64(8500), ev.AmountCentavos)
	assert.True(t, ev.Completed())
	require.NotNil(t, ev.PaidAt)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), ev.PaidAt.UTC())
}

func TestNormalizeEFIWebhookEmptyPixArray(t *testing.T) {
	ev, err := NormalizeWebhook(ProviderEFI, []byte(`{"pix":[]}`))
	require.NoError(t, err)
	assert.False(t, ev.Completed())
}

func TestNormalizeWebhookUnknownProvider(t *testing.T) {
	_, err := NormalizeWebhook("nope", []byte(`{}`))
	assert.Error(t, err)
}

func TestNormalizeWebhookMalformedBody(t *testing.T) {
	for _, p := range []string{ProviderBSPay, ProviderCodexPay, ProviderPoseidonPay, ProviderRyzenPay, ProviderEFI} {
		_, err := NormalizeWebhook(p, []byte(`not json`))
		assert.Error(t, err, p)
	}
}
