package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/usecase"
)

// usecase.AuthUsecase が満たす
type SessionResolver interface {
	Session(ctx context.Context, accessToken string) usecase.SessionResult
}

// AccessTokenCookie は access_token cookie をcontextへ移すだけ（検証しない）
func AccessTokenCookie() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(CookieAccessToken); err == nil && ck.Value != "" {
				c.Set(CtxAccessTokenKey, ck.Value)
			}
			return next(c)
		}
	}
}

// RequireUser はセッションがActiveのときだけ通す
func RequireUser(sessions SessionResolver, log *logger.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := AccessToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Access token not found"))
			}

			res := sessions.Session(c.Request().Context(), token)
			switch res.Status {
			case model.SessionActive:
			case model.SessionExpired:
				return c.JSON(http.StatusUnauthorized, errorJSON(res.Message))
			default:
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserKey, res.User)
			req := c.Request()
			c.SetRequest(req.WithContext(log.WithUserID(req.Context(), res.User.ID)))

			return next(c)
		}
	}
}
