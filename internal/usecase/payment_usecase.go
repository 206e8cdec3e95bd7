package usecase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"pixstore/internal/gateway"
	repo "pixstore/internal/repository"
)

// ChargeCache is the duplicate-charge guard: a charge created for an
// order number stays valid for one hour.
type ChargeCache interface {
	Get(ctx context.Context, numeroPedido string) (gateway.Charge, bool)
	Set(ctx context.Context, numeroPedido string, charge gateway.Charge)
}

// ProviderFactory builds the adapter for an active provider config.
// Indirection exists so tests can stub vendors out.
type ProviderFactory func(ctx context.Context, provider string) (gateway.Provider, error)

type PaymentUsecase struct {
	providers     ProviderFactory
	charges       ChargeCache
	publicBaseURL string
}

func NewPaymentUsecase(providers ProviderFactory, charges ChargeCache, publicBaseURL string) *PaymentUsecase {
	return &PaymentUsecase{providers: providers, charges: charges, publicBaseURL: publicBaseURL}
}

// NewProviderFactory resolves credentials from the payment_gateways table
// on every call, so credential rotation needs no restart. The token cache
// outlives individual adapters.
func NewProviderFactory(gateways repo.GatewayRepository, client *http.Client, tokens *gateway.TokenCache) ProviderFactory {
	return func(ctx context.Context, provider string) (gateway.Provider, error) {
		cfg, err := gateways.FindActive(ctx, provider)
		if err != nil {
			return nil, err
		}
		return gateway.NewProvider(cfg, client, tokens)
	}
}

type CreateChargeInput struct {
	NumeroPedido string
	Valor        float64
	NomeCliente  string
	CPFCliente   string
	Email        string
	Telefone     string
}

func (u *PaymentUsecase) CreateCharge(ctx context.Context, provider string, in CreateChargeInput) (gateway.Charge, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if in.NumeroPedido == "" {
		return gateway.Charge{}, NewHTTPError(http.StatusBadRequest, "numeroPedido obrigatório")
	}

	// An unexpired charge for this order is reused, never recreated.
	if charge, ok := u.charges.Get(ctx, in.NumeroPedido); ok {
		return charge, nil
	}

	p, err := u.providers(ctx, provider)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return gateway.Charge{}, NewHTTPError(http.StatusBadRequest, "gateway não configurado: "+provider)
		}
		return gateway.Charge{}, NewHTTPError(http.StatusInternalServerError, "erro ao carregar gateway")
	}

	charge, err := p.CreateCharge(ctx, gateway.CreateChargeInput{
		AmountCentavos: toCentavos(in.Valor),
		Payer: gateway.Payer{
			Nome:     in.NomeCliente,
			CPF:      in.CPFCliente,
			Email:    in.Email,
			Telefone: in.Telefone,
		},
		ExternalID:  in.NumeroPedido,
		CallbackURL: u.callbackURL(provider),
	})
	if err != nil {
		return gateway.Charge{}, mapGatewayError(provider, err)
	}

	u.charges.Set(ctx, in.NumeroPedido, charge)
	return charge, nil
}

func (u *PaymentUsecase) CheckStatus(ctx context.Context, provider, txid string) (gateway.StatusResult, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if txid == "" {
		return gateway.StatusResult{}, NewHTTPError(http.StatusBadRequest, "txid obrigatório")
	}

	p, err := u.providers(ctx, provider)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return gateway.StatusResult{}, NewHTTPError(http.StatusBadRequest, "gateway não configurado: "+provider)
		}
		return gateway.StatusResult{}, NewHTTPError(http.StatusInternalServerError, "erro ao carregar gateway")
	}

	out, err := p.CheckStatus(ctx, txid)
	if err != nil {
		return gateway.StatusResult{}, mapGatewayError(provider, err)
	}
	return out, nil
}

func (u *PaymentUsecase) callbackURL(provider string) string {
	if u.publicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(u.publicBaseURL, "/") + "/api/pix/" + provider + "/webhook"
}

// mapGatewayError keeps the vendor's message and HTTP status visible to
// the caller; everything else becomes a generic 500.
func mapGatewayError(provider string, err error) error {
	if errors.Is(err, gateway.ErrInvalidAmount) {
		return NewHTTPError(http.StatusBadRequest, "valor inválido")
	}
	if ve, ok := gateway.AsVendorError(err); ok {
		return NewHTTPError(ve.StatusCode, ve.Message)
	}
	log.Printf("[pix:%s] %v", provider, err)
	return NewHTTPError(http.StatusInternalServerError, "erro ao comunicar com o gateway")
}
