package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  *int64 `json:"quantity" validate:"omitempty,gte=1"`
}

// quantity は任意の整数（範囲外は丸める）
type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required"`
}

// cartSession は匿名カートIDを入れるミドルウェア
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cartSession echo.MiddlewareFunc) {
	g := e.Group("/cart")
	g.Use(cartSession)

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.DELETE("", h.clear)
	g.PATCH("/:id", h.patchItem)
	g.DELETE("/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), middleware.CartID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	in := usecase.AddCartInput{ProductID: req.ProductID}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	out, err := h.uc.AddToCart(c.Request().Context(), middleware.CartID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), middleware.CartID(c), productID, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveFromCart(c.Request().Context(), middleware.CartID(c), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	out, err := h.uc.ClearCart(c.Request().Context(), middleware.CartID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
