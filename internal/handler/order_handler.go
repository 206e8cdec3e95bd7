package handler

import (
	"net/http"
	"strconv"

	"pixstore/internal/config"
	"pixstore/internal/domain/model"
	"pixstore/internal/middleware"
	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreateRequest struct {
	TxID        string              `json:"txid"`
	E2EID       string              `json:"e2eId"`
	Gateway     string              `json:"gateway"`
	NomeCliente string              `json:"nomeCliente"`
	CPFCliente  string              `json:"cpfCliente"`
	Telefone    string              `json:"telefone"`
	Endereco    model.Address       `json:"endereco"`
	Itens       []usecase.ItemInput `json:"itens"`
	ValorTotal  float64             `json:"valorTotal"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/pedidos")

	g.POST("/criar", h.create)
	g.GET("/:id/status", h.status)

	auth := g.Group("", middleware.AuthJWT(cfg))
	auth.GET("/telefone/:telefone", h.listByTelefone)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		TxID:        req.TxID,
		E2EID:       req.E2EID,
		Gateway:     req.Gateway,
		NomeCliente: req.NomeCliente,
		CPFCliente:  req.CPFCliente,
		Telefone:    req.Telefone,
		Endereco:    req.Endereco,
		Itens:       req.Itens,
		ValorTotal:  req.ValorTotal,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"pedido":  out,
	})
}

func (h *OrderHandler) status(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("id inválido"))
	}

	out, err := h.uc.GetStatus(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"status":     out.Status,
		"historico":  out.Historico,
		"updated_at": out.UpdatedAt,
	})
}

// listByTelefone only serves the phone the token was issued for; admins
// can read any.
func (h *OrderHandler) listByTelefone(c echo.Context) error {
	telefone := c.Param("telefone")

	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	own, _ := c.Get(middleware.CtxTelefoneKey).(string)
	if role != "ADMIN" && own != telefone {
		return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
	}

	out, err := h.uc.ListByTelefone(c.Request().Context(), telefone)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"pedidos": out,
	})
}
