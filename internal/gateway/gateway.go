// Package gateway holds one adapter per PIX provider. Each adapter speaks
// its vendor's dialect and normalizes charges, statuses and webhook events
// into the common shapes defined here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"pixstore/internal/cpf"
	"pixstore/internal/domain/model"
)

const (
	ProviderBSPay       = "bspay"
	ProviderCodexPay    = "codexpay"
	ProviderPoseidonPay = "poseidonpay"
	ProviderRyzenPay    = "ryzenpay"
	ProviderEFI         = "efi"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusPaid      PaymentStatus = "PAID"
	StatusExpired   PaymentStatus = "EXPIRED"
	StatusCancelled PaymentStatus = "CANCELLED"
)

// Charge ceiling in centavos (R$ 100.000,00).
const MaxAmountCentavos int64 = 10_000_000

var ErrInvalidAmount = errors.New("invalid amount")

type Payer struct {
	Nome     string
	CPF      string
	Email    string
	Telefone string
}

type CreateChargeInput struct {
	// AmountCentavos is the charge value in centavos.
	AmountCentavos int64
	Payer          Payer
	// ExternalID correlates the charge with the order (numero do pedido).
	ExternalID  string
	CallbackURL string
}

// Charge is the normalized result of a charge creation, whatever field
// names the vendor used internally.
type Charge struct {
	TxID          string        `json:"txid"`
	Status        PaymentStatus `json:"status"`
	PixCopiaECola string        `json:"pixCopiaECola"`
	ImagemQrcode  string        `json:"imagemQrcode"`
}

type StatusResult struct {
	Status PaymentStatus `json:"status"`
	PaidAt *time.Time    `json:"paidAt,omitempty"`
}

type Provider interface {
	Name() string
	CreateCharge(ctx context.Context, in CreateChargeInput) (Charge, error)
	CheckStatus(ctx context.Context, txid string) (StatusResult, error)
}

// VendorError carries the vendor's own message, untranslated, tagged with
// the HTTP status the vendor answered with.
type VendorError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s: vendor error %d: %s", e.Provider, e.StatusCode, e.Message)
}

func AsVendorError(err error) (*VendorError, bool) {
	var ve *VendorError
	ok := errors.As(err, &ve)
	return ve, ok
}

// validateInput applies the shared charge-creation contract: positive
// amount under the ceiling; CPF failures are advisory only.
func validateInput(provider string, in CreateChargeInput) error {
	if in.AmountCentavos <= 0 || in.AmountCentavos > MaxAmountCentavos {
		return ErrInvalidAmount
	}
	if !cpf.Valid(in.Payer.CPF) {
		log.Printf("[%s] warning: invalid payer CPF for charge %s, proceeding anyway", provider, in.ExternalID)
	}
	return nil
}

// centavosToReais renders a centavos value as "123.45" for vendors that
// take decimal amounts.
func centavosToReais(v int64) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

func reaisToCentavos(v float64) int64 {
	if v < 0 {
		return int64(v*100 - 0.5)
	}
	return int64(v*100 + 0.5)
}

// postJSON sends a JSON body and decodes a JSON answer. Non-2xx responses
// come back as *VendorError with the raw vendor body as message.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out interface{}) error {
	return doJSON(ctx, client, provider, http.MethodPost, url, headers, body, out)
}

func getJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, out interface{}) error {
	return doJSON(ctx, client, provider, http.MethodGet, url, headers, nil, out)
}

func doJSON(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", provider, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http call: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &VendorError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}

// NewProvider builds the adapter for a configured provider.
func NewProvider(cfg model.GatewayConfig, client *http.Client, tokens *TokenCache) (Provider, error) {
	switch cfg.Provider {
	case ProviderBSPay:
		return NewBSPay(cfg, client, tokens), nil
	case ProviderCodexPay:
		return NewCodexPay(cfg, client), nil
	case ProviderPoseidonPay:
		return NewPoseidonPay(cfg, client), nil
	case ProviderRyzenPay:
		return NewRyzenPay(cfg, client), nil
	case ProviderEFI:
		return NewEFI(cfg, client, tokens), nil
	default:
		return nil, fmt.Errorf("unknown gateway provider %q", cfg.Provider)
	}
}
