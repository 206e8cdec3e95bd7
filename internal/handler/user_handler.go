package handler

import (
	"net/http"

	"pixstore/internal/domain/model"
	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type CreatePinRequest struct {
	Telefone string        `json:"telefone"`
	Pin      string        `json:"pin"`
	Nome     string        `json:"nome"`
	CPF      string        `json:"cpf"`
	Endereco model.Address `json:"endereco"`
}

type LoginRequest struct {
	Telefone string `json:"telefone"`
	Pin      string `json:"pin"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/usuarios")

	g.POST("/criar-pin", h.createPin)
	g.POST("/login", h.login)
	g.POST("/verificar-pin", h.verifyPin)
	g.GET("/verificar/:telefone", h.verify)
}

func (h *UserHandler) createPin(c echo.Context) error {
	var req CreatePinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	out, err := h.uc.CreatePin(c.Request().Context(), usecase.CreatePinInput{
		Telefone: req.Telefone,
		Pin:      req.Pin,
		Nome:     req.Nome,
		CPF:      req.CPF,
		Endereco: req.Endereco,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"usuario": out,
	})
}

func (h *UserHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	out, err := h.uc.Login(c.Request().Context(), req.Telefone, req.Pin)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"usuario":    out.User,
		"token":      out.Token,
		"expires_at": out.ExpiresAt,
	})
}

func (h *UserHandler) verifyPin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("corpo inválido"))
	}

	ok, err := h.uc.VerifyPin(c.Request().Context(), req.Telefone, req.Pin)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"valido":  ok,
	})
}

func (h *UserHandler) verify(c echo.Context) error {
	out, err := h.uc.Verify(c.Request().Context(), c.Param("telefone"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"exists":  out.Exists,
		"temPin":  out.TemPin,
	})
}
