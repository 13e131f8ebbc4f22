package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bind + validate。失敗は400
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		if _, ok := usecase.AsHTTPError(err); ok {
			return err
		}
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}
