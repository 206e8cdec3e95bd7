package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"pixstore/internal/domain/model"
)

// EFI (Gerencianet) follows the Banco Central cob API: charge creation and
// QR retrieval are two separate calls, and the pix key lives in our config
// (PublicKey) rather than in the payload shape the other vendors use.
type EFI struct {
	cfg    model.GatewayConfig
	client *http.Client
	tokens *TokenCache
}

func NewEFI(cfg model.GatewayConfig, client *http.Client, tokens *TokenCache) *EFI {
	return &EFI{cfg: cfg, client: client, tokens: tokens}
}

func (g *EFI) Name() string { return ProviderEFI }

type efiTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (g *EFI) authorize(ctx context.Context) (string, error) {
	if tok, ok := g.tokens.Get(ProviderEFI); ok {
		return tok, nil
	}

	basic := base64.StdEncoding.EncodeToString([]byte(g.cfg.ClientID + ":" + g.cfg.ClientSecret))
	var resp efiTokenResponse
	err := postJSON(ctx, g.client, ProviderEFI, g.cfg.BaseURL+"/oauth/token",
		map[string]string{"Authorization": "Basic " + basic},
		map[string]string{"grant_type": "client_credentials"},
		&resp,
	)
	if err != nil {
		return "", err
	}

	g.tokens.Set(ProviderEFI, resp.AccessToken, resp.ExpiresIn)
	return resp.AccessToken, nil
}

type efiCobRequest struct {
	Calendario efiCalendario `json:"calendario"`
	Devedor    efiDevedor    `json:"devedor"`
	Valor      efiValor      `json:"valor"`
	Chave      string        `json:"chave"`
	Solicitacao string       `json:"solicitacaoPagador,omitempty"`
}

type efiCalendario struct {
	Expiracao int `json:"expiracao"`
}

type efiDevedor struct {
	CPF  string `json:"cpf"`
	Nome string `json:"nome"`
}

type efiValor struct {
	Original string `json:"original"`
}

type efiCobResponse struct {
	TxID   string `json:"txid"`
	Status string `json:"status"`
	Loc    struct {
		ID int64 `json:"id"`
	} `json:"loc"`
}

type efiQRCodeResponse struct {
	QRCode       string `json:"qrcode"`
	ImagemQrcode string `json:"imagemQrcode"`
}

func (g *EFI) CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error) {
	if err := validateInput(ProviderEFI, in); err != nil {
		return Charge{}, err
	}

	tok, err := g.authorize(ctx)
	if err != nil {
		return Charge{}, err
	}
	auth := map[string]string{"Authorization": "Bearer " + tok}

	var cob efiCobResponse
	err = postJSON(ctx, g.client, ProviderEFI, g.cfg.BaseURL+"/v2/cob",
		auth,
		efiCobRequest{
			Calendario:  efiCalendario{Expiracao: 3600},
			Devedor:     efiDevedor{CPF: in.Payer.CPF, Nome: in.Payer.Nome},
			Valor:       efiValor{Original: centavosToReais(in.AmountCentavos)},
			Chave:       g.cfg.PublicKey,
			Solicitacao: "Pedido " + in.ExternalID,
		},
		&cob,
	)
	if err != nil {
		g.invalidateOnAuthError(err)
		return Charge{}, err
	}

	var qr efiQRCodeResponse
	err = getJSON(ctx, g.client, ProviderEFI, fmt.Sprintf("%s/v2/loc/%d/qrcode", g.cfg.BaseURL, cob.Loc.ID),
		auth, &qr)
	if err != nil {
		g.invalidateOnAuthError(err)
		return Charge{}, err
	}

	return ensureImage(Charge{
		TxID:          cob.TxID,
		Status:        mapEFIStatus(cob.Status),
		PixCopiaECola: qr.QRCode,
		ImagemQrcode:  qr.ImagemQrcode,
	}), nil
}

type efiCobStatusResponse struct {
	Status string `json:"status"`
	Pix    []struct {
		Horario string `json:"horario"`
	} `json:"pix"`
}

func (g *EFI) CheckStatus(ctx context.Context, txid string) (StatusResult, error) {
	tok, err := g.authorize(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	var resp efiCobStatusResponse
	err = getJSON(ctx, g.client, ProviderEFI, g.cfg.BaseURL+"/v2/cob/"+txid,
		map[string]string{"Authorization": "Bearer " + tok}, &resp)
	if err != nil {
		g.invalidateOnAuthError(err)
		return StatusResult{}, err
	}

	out := StatusResult{Status: mapEFIStatus(resp.Status)}
	if len(resp.Pix) > 0 && resp.Pix[0].Horario != "" {
		if t, perr := time.Parse(time.RFC3339, resp.Pix[0].Horario); perr == nil {
			out.PaidAt = &t
		}
	}
	return out, nil
}

func (g *EFI) invalidateOnAuthError(err error) {
	if ve, ok := AsVendorError(err); ok &&
		(ve.StatusCode == http.StatusUnauthorized || ve.StatusCode == http.StatusForbidden) {
		g.tokens.Invalidate(ProviderEFI)
	}
}

func mapEFIStatus(s string) PaymentStatus {
	switch s {
	case "CONCLUIDA":
		return StatusPaid
	case "REMOVIDA_PELO_USUARIO_RECEBEDOR", "REMOVIDA_PELO_PSP":
		return StatusCancelled
	case "EXPIRADA":
		return StatusExpired
	default: // ATIVA
		return StatusPending
	}
}
