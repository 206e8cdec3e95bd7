package handler

import (
	"net/http"

	"pixstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// writeError maps usecase HTTPErrors onto the JSON envelope; anything
// else is a 500 with the real cause kept server-side.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, errorJSON(he.Message))
	}
	return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
}
