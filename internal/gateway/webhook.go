package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CommonEvent is the provider-neutral view of a payment webhook. The
// reconciliation routine only ever consumes this shape.
type CommonEvent struct {
	Provider      string
	TransactionID string
	// ExternalID carries the order number when the vendor echoes it back.
	ExternalID     string
	EndToEndID     string
	Status         PaymentStatus
	AmountCentavos int64
	EventType      string
	PaidAt         *time.Time
}

// Completed reports whether the event represents a finished payment.
// Anything else is acknowledged and ignored.
func (e CommonEvent) Completed() bool {
	return e.Status == StatusPaid
}

// NormalizeWebhook parses a provider's callback body into a CommonEvent.
func NormalizeWebhook(provider string, raw []byte) (CommonEvent, error) {
	switch provider {
	case ProviderBSPay:
		return normalizeBSPayWebhook(raw)
	case ProviderCodexPay:
		return normalizeCodexPayWebhook(raw)
	case ProviderPoseidonPay:
		return normalizePoseidonWebhook(raw)
	case ProviderRyzenPay:
		return normalizeRyzenWebhook(raw)
	case ProviderEFI:
		return normalizeEFIWebhook(raw)
	default:
		return CommonEvent{}, fmt.Errorf("unknown webhook provider %q", provider)
	}
}

// BSPay nests everything under requestBody.
func normalizeBSPayWebhook(raw []byte) (CommonEvent, error) {
	var body struct {
		RequestBody struct {
			TransactionType string  `json:"transactionType"`
			TransactionID   string  `json:"transactionId"`
			ExternalID      string  `json:"external_id"`
			Amount          float64 `json:"amount"`
			Status          string  `json:"status"`
		} `json:"requestBody"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return CommonEvent{}, fmt.Errorf("bspay webhook: %w", err)
	}

	ev := CommonEvent{
		Provider:       ProviderBSPay,
		TransactionID:  body.RequestBody.TransactionID,
		ExternalID:     body.RequestBody.ExternalID,
		AmountCentavos: reaisToCentavos(body.RequestBody.Amount),
		EventType:      body.RequestBody.TransactionType,
		Status:         mapBSPayStatus(body.RequestBody.Status),
	}
	// RECEIVEPIX with no explicit status means the money arrived.
	if body.RequestBody.Status == "" && body.RequestBody.TransactionType == "RECEIVEPIX" {
		ev.Status = StatusPaid
	}
	return ev, nil
}

func normalizeCodexPayWebhook(raw []byte) (CommonEvent, error) {
	var body struct {
		TransactionID string  `json:"transactionId"`
		ID            string  `json:"id"`
		Status        string  `json:"status"`
		Amount        float64 `json:"amount"`
		Type          string  `json:"type"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return CommonEvent{}, fmt.Errorf("codexpay webhook: %w", err)
	}

	txid := body.TransactionID
	if txid == "" {
		txid = body.ID
	}
	return CommonEvent{
		Provider:       ProviderCodexPay,
		TransactionID:  txid,
		AmountCentavos: reaisToCentavos(body.Amount),
		EventType:      body.Type,
		Status:         mapCodexPayStatus(body.Status),
	}, nil
}

func normalizePoseidonWebhook(raw []byte) (CommonEvent, error) {
	var body struct {
		Event       string `json:"event"`
		Transaction struct {
			ID     string  `json:"id"`
			Status string  `json:"status"`
			Amount float64 `json:"amount"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return CommonEvent{}, fmt.Errorf("poseidonpay webhook: %w", err)
	}

	ev := CommonEvent{
		Provider:       ProviderPoseidonPay,
		TransactionID:  body.Transaction.ID,
		AmountCentavos: reaisToCentavos(body.Transaction.Amount),
		EventType:      body.Event,
		Status:         mapPoseidonStatus(body.Transaction.Status),
	}
	if body.Event == "TRANSACTION_PAID" {
		ev.Status = StatusPaid
	}
	return ev, nil
}

func normalizeRyzenWebhook(raw []byte) (CommonEvent, error) {
	var body struct {
		IDTransaction string      `json:"idTransaction"`
		Status        string      `json:"status"`
		Amount        json.Number `json:"amount"`
		Value         json.Number `json:"value"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return CommonEvent{}, fmt.Errorf("ryzenpay webhook: %w", err)
	}

	amount := body.Amount
	if amount == "" {
		amount = body.Value
	}
	f, _ := amount.Float64()

	return CommonEvent{
		Provider:       ProviderRyzenPay,
		TransactionID:  body.IDTransaction,
		AmountCentavos: reaisToCentavos(f),
		Status:         mapRyzenStatus(body.Status),
	}, nil
}

// EFI delivers an array of received pix; amounts come as decimal strings.
func normalizeEFIWebhook(raw []byte) (CommonEvent, error) {
	var body struct {
		Pix []struct {
			TxID       string `json:"txid"`
			EndToEndID string `json:"endToEndId"`
			Valor      string `json:"valor"`
			Horario    string `json:"horario"`
		} `json:"pix"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return CommonEvent{}, fmt.Errorf("efi webhook: %w", err)
	}
	if len(body.Pix) == 0 {
		return CommonEvent{Provider: ProviderEFI, Status: StatusPending}, nil
	}

	p := body.Pix[0]
	valor, _ := strconv.ParseFloat(p.Valor, 64)

	ev := CommonEvent{
		Provider:       ProviderEFI,
		TransactionID:  p.TxID,
		EndToEndID:     p.EndToEndID,
		AmountCentavos: reaisToCentavos(valor),
		EventType:      "pix",
		Status:         StatusPaid,
	}
	if p.Horario != "" {
		if t, err := time.Parse(time.RFC3339, p.Horario); err == nil {
			ev.PaidAt = &t
		}
	}
	return ev, nil
}
