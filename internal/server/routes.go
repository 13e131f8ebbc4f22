package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/handler"
	"storefront/internal/middleware"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	cartSession := middleware.CartSession(middleware.CartSessionOptions{
		Secret: []byte(d.Config.SessionSecret),
		MaxAge: d.Config.Cart.CookieMaxAge,
		Secure: d.Config.CookieSecure,
	}, d.Log)
	requireUser := middleware.RequireUser(d.Auth, d.Log)

	handler.NewCatalogHandler(d.Catalog).RegisterRoutes(e)
	handler.NewCartHandler(d.Cart).RegisterRoutes(e, cartSession)
	handler.NewAuthHandler(d.Auth, d.Config.CookieSecure).RegisterRoutes(e)
	handler.NewOrderHandler(d.Orders, d.Cart).RegisterRoutes(e, requireUser, cartSession)
}
