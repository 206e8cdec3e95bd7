package server

import (
	"pixstore/internal/config"
	"pixstore/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Orders     *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Payments   *handler.PaymentHandler
	Webhooks   *handler.WebhookHandler
	Users      *handler.UserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Orders.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Payments.RegisterRoutes(e)
	h.Webhooks.RegisterRoutes(e)
	h.Users.RegisterRoutes(e)
}
