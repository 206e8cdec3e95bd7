package handler

import (
	"net/http"

	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type ChargeCreateRequest struct {
	NumeroPedido string  `json:"numeroPedido"`
	Valor        float64 `json:"valor"`
	NomeCliente  string  `json:"nomeCliente"`
	CPFCliente   string  `json:"cpfCliente"`
	Email        string  `json:"email"`
	Telefone     string  `json:"telefone"`
}

type ChargeStatusRequest struct {
	TxID string `json:"txid"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/pix/:provider")

	g.POST("/create", h.create)
	g.POST("/status", h.status)
}

func (h *PaymentHandler) create(c echo.Context) error {
	var req ChargeCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	charge, err := h.uc.CreateCharge(c.Request().Context(), c.Param("provider"), usecase.CreateChargeInput{
		NumeroPedido: req.NumeroPedido,
		Valor:        req.Valor,
		NomeCliente:  req.NomeCliente,
		CPFCliente:   req.CPFCliente,
		Email:        req.Email,
		Telefone:     req.Telefone,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"charge":  charge,
	})
}

func (h *PaymentHandler) status(c echo.Context) error {
	var req ChargeStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	out, err := h.uc.CheckStatus(c.Request().Context(), c.Param("provider"), req.TxID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  out.Status,
		"paidAt":  out.PaidAt,
	})
}
