package middleware

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
)

const (
	CtxCartIDKey      = "cart_id"      // string
	CtxAccessTokenKey = "access_token" // string
	CtxUserKey        = "user"         // *model.User
)

const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookieCartSession  = "cart_session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func CartID(c echo.Context) string {
	id, _ := c.Get(CtxCartIDKey).(string)
	return id
}

func AccessToken(c echo.Context) string {
	tok, _ := c.Get(CtxAccessTokenKey).(string)
	return tok
}

// RequireUser の後でのみ非nil
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(CtxUserKey).(*model.User)
	return u
}
