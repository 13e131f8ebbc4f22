package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// カタログ・商品の公開API
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalog", h.catalog)
	e.GET("/catalog/products", h.catalogProducts)
	e.GET("/products/search", h.search)
	e.GET("/products/:id", h.detail)
	e.GET("/products/:id/related", h.related)
}

func (h *CatalogHandler) catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.GetCatalog(c.Request().Context()))
}

func (h *CatalogHandler) catalogProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.GetCatalogProducts(c.Request().Context()))
}

func (h *CatalogHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
	}

	p, err := h.uc.GetProductDetails(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// page_id 省略時は商品の先頭ページ
func (h *CatalogHandler) related(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
	}

	var pageID int64
	if v := c.QueryParam("page_id"); v != "" {
		pageID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "PageId is required"})
		}
	} else {
		p, err := h.uc.GetProductDetails(ctx, id)
		if err != nil {
			return writeError(c, err)
		}
		pageID = p.PrimaryPageID()
	}

	out, err := h.uc.GetRelatedProducts(ctx, pageID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) search(c echo.Context) error {
	out, err := h.uc.SearchProduct(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
