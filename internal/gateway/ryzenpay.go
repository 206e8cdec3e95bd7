package gateway

import (
	"context"
	"net/http"
	"strings"

	"pixstore/internal/domain/model"
)

// RyzenPay takes the API key inside the request body rather than a header.
type RyzenPay struct {
	cfg    model.GatewayConfig
	client *http.Client
}

func NewRyzenPay(cfg model.GatewayConfig, client *http.Client) *RyzenPay {
	return &RyzenPay{cfg: cfg, client: client}
}

func (g *RyzenPay) Name() string { return ProviderRyzenPay }

type ryzenChargeRequest struct {
	APIKey     string        `json:"api_key"`
	Amount     string        `json:"amount"`
	Reference  string        `json:"reference"`
	WebhookURL string        `json:"webhook_url,omitempty"`
	Customer   ryzenCustomer `json:"customer"`
}

type ryzenCustomer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
}

type ryzenChargeResponse struct {
	IDTransaction     string `json:"idTransaction"`
	Status            string `json:"status"`
	PaymentCode       string `json:"paymentCode"`
	PaymentCodeBase64 string `json:"paymentCodeBase64"`
}

func (g *RyzenPay) CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error) {
	if err := validateInput(ProviderRyzenPay, in); err != nil {
		return Charge{}, err
	}

	var resp ryzenChargeResponse
	err := postJSON(ctx, g.client, ProviderRyzenPay, g.cfg.BaseURL+"/api/v1/gateway/pix/receive",
		nil,
		ryzenChargeRequest{
			APIKey:     g.cfg.APIKey,
			Amount:     centavosToReais(in.AmountCentavos),
			Reference:  in.ExternalID,
			WebhookURL: in.CallbackURL,
			Customer: ryzenCustomer{
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
		TxID:          resp.IDTransaction,
		Status:        mapRyzenStatus(resp.Status),
		PixCopiaECola: resp.PaymentCode,
		ImagemQrcode:  resp.PaymentCodeBase64,
	}), nil
}

type ryzenStatusResponse struct {
	Status string `json:"status"`
}

func (g *RyzenPay) CheckStatus(ctx context.Context, txid string) (StatusResult, error) {
	var resp ryzenStatusResponse
	err := postJSON(ctx, g.client, ProviderRyzenPay, g.cfg.BaseURL+"/api/v1/gateway/pix/status",
		nil,
		map[string]string{"api_key": g.cfg.APIKey, "idTransaction": txid},
		&resp,
	)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{Status: mapRyzenStatus(resp.Status)}, nil
}

func mapRyzenStatus(s string) PaymentStatus {
	switch strings.ToUpper(s) {
	case "PAID_OUT", "PAID", "COMPLETED":
		return StatusPaid
	case "EXPIRED":
		return StatusExpired
	case "CANCELED", "CANCELLED", "CHARGEBACK":
		return StatusCancelled
	default:
		return StatusPending
	}
}
