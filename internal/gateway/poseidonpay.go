package gateway

import (
	"context"
	"net/http"
	"strings"

	"pixstore/internal/domain/model"
)

// PoseidonPay authenticates with a public/secret header pair and nests its
// charge data one level deeper than the other vendors.
type PoseidonPay struct {
	cfg    model.GatewayConfig
	client *http.Client
}

func NewPoseidonPay(cfg model.GatewayConfig, client *http.Client) *PoseidonPay {
	return &PoseidonPay{cfg: cfg, client: client}
}

func (g *PoseidonPay) Name() string { return ProviderPoseidonPay }

func (g *PoseidonPay) headers() map[string]string {
	return map[string]string{
		"x-public-key": g.cfg.PublicKey,
		"x-secret-key": g.cfg.ClientSecret,
	}
}

type poseidonChargeRequest struct {
	Amount      string         `json:"amount"`
	ExternalID  string         `json:"externalId"`
	CallbackURL string         `json:"callbackUrl,omitempty"`
	Client      poseidonClient `json:"client"`
}

type poseidonClient struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type poseidonChargeResponse struct {
	QRCodeResponse struct {
		TransactionID string `json:"transactionId"`
		QRCode        string `json:"qrcode"`
		Status        string `json:"status"`
	} `json:"qrCodeResponse"`
}

func (g *PoseidonPay) CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error) {
	if err := validateInput(ProviderPoseidonPay, in); err != nil {
		return Charge{}, err
	}

	var resp poseidonChargeResponse
	err := postJSON(ctx, g.client, ProviderPoseidonPay, g.cfg.BaseURL+"/api/payments/deposit",
		g.headers(),
		poseidonChargeRequest{
			Amount:      centavosToReais(in.AmountCentavos),
			ExternalID:  in.ExternalID,
			CallbackURL: in.CallbackURL,
			Client: poseidonClient{
				Name:     in.Payer.Nome,
				Document: in.Payer.CPF,
				Email:    in.Payer.Email,
				Phone:    in.Payer.Telefone,
			},
		},
		&resp,
	)
	if err != nil {
		return Charge{}, err
	}

	// PoseidonPay never returns an image of its own.
	return ensureImage(Charge{
		TxID:          resp.QRCodeResponse.TransactionID,
		Status:        mapPoseidonStatus(resp.QRCodeResponse.Status),
		PixCopiaECola: resp.QRCodeResponse.QRCode,
	}), nil
}

type poseidonStatusResponse struct {
	Transaction struct {
		Status string `json:"status"`
	} `json:"transaction"`
}

func (g *PoseidonPay) CheckStatus(ctx context.Context, txid string) (StatusResult, error) {
	var resp poseidonStatusResponse
	err := getJSON(ctx, g.client, ProviderPoseidonPay, g.cfg.BaseURL+"/api/payments/"+txid+"/status",
		g.headers(), &resp)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{Status: mapPoseidonStatus(resp.Transaction.Status)}, nil
}

func mapPoseidonStatus(s string) PaymentStatus {
	switch strings.ToUpper(s) {
	case "PAID", "COMPLETED":
		return StatusPaid
	case "EXPIRED":
		return StatusExpired
	case "CANCELLED", "CANCELED":
		return StatusCancelled
	default:
		return StatusPending
	}
}
