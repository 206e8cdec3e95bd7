package handler

import (
	"io"
	"log"
	"net/http"

	"pixstore/internal/gateway"
	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	uc *usecase.WebhookUsecase
}

func NewWebhookHandler(uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/pix/:provider/webhook", h.receive)
}

// receive always answers 200: anything else would trigger the vendor's
// retry storm. Failures only reach the logs.
func (h *WebhookHandler) receive(c echo.Context) error {
	provider := c.Param("provider")

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Printf("[webhook:%s] ler corpo: %v", provider, err)
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	ev, err := gateway.NormalizeWebhook(provider, raw)
	if err != nil {
		log.Printf("[webhook:%s] payload inválido: %v", provider, err)
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	if err := h.uc.ConfirmPayment(c.Request().Context(), ev); err != nil {
		log.Printf("[webhook:%s] processar: %v", provider, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
