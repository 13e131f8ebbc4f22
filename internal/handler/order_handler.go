package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type OrderHandler struct {
	orders *usecase.OrderUsecase
	carts  *usecase.CartUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase, carts *usecase.CartUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

type FormDataRequest struct {
	Marker string `json:"marker" validate:"required"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

type CheckoutRequest struct {
	FormIdentifier           string            `json:"form_identifier"`
	PaymentAccountIdentifier string            `json:"payment_account_identifier"`
	FormData                 []FormDataRequest `json:"form_data" validate:"dive"`
}

// requireUser はログイン必須、cartSession は注文対象のカート
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, requireUser echo.MiddlewareFunc, cartSession echo.MiddlewareFunc) {
	g := e.Group("/orders")
	g.Use(requireUser)

	g.GET("", h.list)
	g.POST("/checkout", h.checkout, cartSession)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	ctx := c.Request().Context()
	state, err := h.carts.Snapshot(ctx, middleware.CartID(c))
	if err != nil {
		return writeError(c, err)
	}

	formData := make([]model.FormDataEntry, 0, len(req.FormData))
	for _, f := range req.FormData {
		typ := f.Type
		if typ == "" {
			typ = "string"
		}
		formData = append(formData, model.FormDataEntry{Marker: f.Marker, Type: typ, Value: f.Value})
	}

	out, err := h.orders.Checkout(ctx, middleware.AccessToken(c), state, usecase.CheckoutInput{
		FormIdentifier:           req.FormIdentifier,
		PaymentAccountIdentifier: req.PaymentAccountIdentifier,
		FormData:                 formData,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.orders.ListOrders(c.Request().Context(), middleware.AccessToken(c)))
}
