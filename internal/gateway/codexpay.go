package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pixstore/internal/domain/model"
)

// CodexPay authenticates with a single static API key header.
type CodexPay struct {
	cfg    model.GatewayConfig
	client *http.Client
}

func NewCodexPay(cfg model.GatewayConfig, client *http.Client) *CodexPay {
	return &CodexPay{cfg: cfg, client: client}
}

func (g *CodexPay) Name() string { return ProviderCodexPay }

func (g *CodexPay) headers() map[string]string {
	return map[string]string{"x-api-key": g.cfg.APIKey}
}

type codexpayChargeRequest struct {
	Amount            float64       `json:"amount"`
	ExternalID        string        `json:"external_id"`
	ClientCallbackURL string        `json:"clientCallbackUrl,omitempty"`
	Payer             codexpayPayer `json:"payer"`
}

type codexpayPayer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
}

type codexpayChargeResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	QRCopyPaste   string `json:"qrCopyPaste"`
	QRBase64      string `json:"qrBase64"`
}

func (g *CodexPay) CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error) {
	if err := validateInput(ProviderCodexPay, in); err != nil {
		return Charge{}, err
	}

	amount, _ := strconv.ParseFloat(centavosToReais(in.AmountCentavos), 64)

	var resp codexpayChargeResponse
	err := postJSON(ctx, g.client, ProviderCodexPay, g.cfg.BaseURL+"/api/payments/deposit",
		g.headers(),
		codexpayChargeRequest{
			Amount:            amount,
			ExternalID:        in.ExternalID,
			ClientCallbackURL: in.CallbackURL,
			Payer: codexpayPayer{
				Name:     in.Payer.Nome,
				Document: in.Payer.CPF,
				Email:    in.Payer.Email,
			},
		},
		&resp,
	)
	if err != nil {
		return Charge{}, err
	}

	return ensureImage(Charge{
		TxID:          resp.TransactionID,
		Status:        mapCodexPayStatus(resp.Status),
		PixCopiaECola: resp.QRCopyPaste,
		ImagemQrcode:  resp.QRBase64,
	}), nil
}

type codexpayStatusResponse struct {
	Status string `json:"status"`
	PaidAt string `json:"paid_at"`
}

func (g *CodexPay) CheckStatus(ctx context.Context, txid string) (StatusResult, error) {
	var resp codexpayStatusResponse
	err := getJSON(ctx, g.client, ProviderCodexPay, g.cfg.BaseURL+"/api/payments/"+txid,
		g.headers(), &resp)
	if err != nil {
		return StatusResult{}, err
	}

	out := StatusResult{Status: mapCodexPayStatus(resp.Status)}
	if resp.PaidAt != "" {
		if t, perr := time.Parse(time.RFC3339, resp.PaidAt); perr == nil {
			out.PaidAt = &t
		}
	}
	return out, nil
}

func mapCodexPayStatus(s string) PaymentStatus {
	switch strings.ToLower(s) {
	case "paid", "completed", "approved":
		return StatusPaid
	case "expired":
		return StatusExpired
	case "cancelled", "canceled", "refunded":
		return StatusCancelled
	default:
		return StatusPending
	}
}
