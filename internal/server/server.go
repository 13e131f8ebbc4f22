package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// Deps はルーティングに必要な部品
type Deps struct {
	Config   config.Config
	Log      *logger.Logger
	Gatherer prometheus.Gatherer

	Catalog *usecase.CatalogUsecase
	Cart    *usecase.CartUsecase
	Auth    *usecase.AuthUsecase
	Orders  *usecase.OrderUsecase
}

func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(middleware.AccessLog(d.Log))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID(d.Log))
	if d.Config.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{d.Config.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.AccessTokenCookie())

	RegisterRoutes(e, d)
	return e
}

// Start は ctx が終わるまで待ち、終わったら graceful shutdown
func Start(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Zerolog(ctx).Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
