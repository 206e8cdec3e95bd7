package gateway

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"pixstore/internal/domain/model"
)

// BSPay authenticates with OAuth client-credentials and caches the bearer
// token between charge calls.
type BSPay struct {
	cfg    model.GatewayConfig
	client *http.Client
	tokens *TokenCache
}

func NewBSPay(cfg model.GatewayConfig, client *http.Client, tokens *TokenCache) *BSPay {
	return &BSPay{cfg: cfg, client: client, tokens: tokens}
}

func (g *BSPay) Name() string { return ProviderBSPay }

type bspayTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (g *BSPay) authorize(ctx context.Context) (string, error) {
	if tok, ok := g.tokens.Get(ProviderBSPay); ok {
		return tok, nil
	}

	basic := base64.StdEncoding.EncodeToString([]byte(g.cfg.ClientID + ":" + g.cfg.ClientSecret))
	var resp bspayTokenResponse
	err := postJSON(ctx, g.client, ProviderBSPay, g.cfg.BaseURL+"/v2/oauth/token",
		map[string]string{"Authorization": "Basic " + basic},
		map[string]string{"grant_type": "client_credentials"},
		&resp,
	)
	if err != nil {
		return "", err
	}

	g.tokens.Set(ProviderBSPay, resp.AccessToken, resp.ExpiresIn)
	return resp.AccessToken, nil
}

type bspayChargeRequest struct {
	Amount      string     `json:"amount"`
	ExternalID  string     `json:"external_id"`
	PostbackURL string     `json:"postbackUrl,omitempty"`
	Payer       bspayPayer `json:"payer"`
}

type bspayPayer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
}

type bspayChargeResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	QRCode        string `json:"qrcode"`
	QRCodeImage   string `json:"qrcodeImage"`
}

func (g *BSPay) CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error) {
	if err := validateInput(ProviderBSPay, in); err != nil {
		return Charge{}, err
	}

	tok, err := g.authorize(ctx)
	if err != nil {
		return Charge{}, err
	}

	var resp bspayChargeResponse
	err = postJSON(ctx, g.client, ProviderBSPay, g.cfg.BaseURL+"/v2/pix/qrcode",
		map[string]string{"Authorization": "Bearer " + tok},
		bspayChargeRequest{
			Amount:      centavosToReais(in.AmountCentavos),
			ExternalID:  in.ExternalID,
			PostbackURL: in.CallbackURL,
			Payer: bspayPayer{
				Name:     in.Payer.Nome,
				Document: in.Payer.CPF,
				Email:    in.Payer.Email,
			},
		},
		&resp,
	)
	if err != nil {
		g.invalidateOnAuthError(err)
		return Charge{}, err
	}

	return ensureImage(Charge{
		TxID:          resp.TransactionID,
		Status:        mapBSPayStatus(resp.Status),
		PixCopiaECola: resp.QRCode,
		ImagemQrcode:  resp.QRCodeImage,
	}), nil
}

type bspayStatusResponse struct {
	Status string `json:"status"`
	PaidAt string `json:"paidAt"`
}

func (g *BSPay) CheckStatus(ctx context.Context, txid string) (StatusResult, error) {
	tok, err := g.authorize(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	var resp bspayStatusResponse
	err = getJSON(ctx, g.client, ProviderBSPay, g.cfg.BaseURL+"/v2/pix/consult-qrcode?transactionId="+txid,
		map[string]string{"Authorization": "Bearer " + tok},
		&resp,
	)
	if err != nil {
		g.invalidateOnAuthError(err)
		return StatusResult{}, err
	}

	out := StatusResult{Status: mapBSPayStatus(resp.Status)}
	if resp.PaidAt != "" {
		if t, perr := time.Parse(time.RFC3339, resp.PaidAt); perr == nil {
			out.PaidAt = &t
		}
	}
	return out, nil
}

func (g *BSPay) invalidateOnAuthError(err error) {
	if ve, ok := AsVendorError(err); ok &&
		(ve.StatusCode == http.StatusUnauthorized || ve.StatusCode == http.StatusForbidden) {
		g.tokens.Invalidate(ProviderBSPay)
	}
}

func mapBSPayStatus(s string) PaymentStatus {
	switch strings.ToUpper(s) {
	case "PAID", "COMPLETED", "APPROVED":
		return StatusPaid
	case "EXPIRED":
		return StatusExpired
	case "CANCELLED", "CANCELED", "REFUSED":
		return StatusCancelled
	default:
		return StatusPending
	}
}
