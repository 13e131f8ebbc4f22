package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

const (
	accessCookieTTL  = 24 * time.Hour
	refreshCookieTTL = 7 * 24 * time.Hour
)

// /auth のHTTP。トークンはcookieでやり取りする
type AuthHandler struct {
	uc           *usecase.AuthUsecase
	secureCookie bool
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, secureCookie: secureCookie}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type LoginResponse struct {
	UserIdentifier string `json:"user_identifier"`
	Message        string `json:"message"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")

	g.GET("/session", h.session)
	g.GET("/forms/:marker", h.form)
	g.POST("/login", h.login)
	g.POST("/signup", h.signup)
	g.POST("/logout", h.logout)
}

func (h *AuthHandler) session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Session(c.Request().Context(), middleware.AccessToken(c)))
}

func (h *AuthHandler) form(c echo.Context) error {
	attrs, err := h.uc.Form(c.Request().Context(), c.Param("marker"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, attrs)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	tokens, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	c.SetCookie(h.cookie(middleware.CookieAccessToken, tokens.AccessToken, accessCookieTTL))
	c.SetCookie(h.cookie(middleware.CookieRefreshToken, tokens.RefreshToken, refreshCookieTTL))

	return c.JSON(http.StatusOK, LoginResponse{
		UserIdentifier: tokens.UserIdentifier,
		Message:        "Logged in successfully",
	})
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.uc.Signup(c.Request().Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) logout(c echo.Context) error {
	refresh := ""
	if ck, err := c.Cookie(middleware.CookieRefreshToken); err == nil {
		refresh = ck.Value
	}

	res, err := h.uc.Logout(c.Request().Context(), middleware.AccessToken(c), refresh)
	if err != nil {
		return writeError(c, err)
	}

	//成功時のみcookieを消す
	if res.LoggedOut {
		c.SetCookie(h.cookie(middleware.CookieAccessToken, "", -1))
		c.SetCookie(h.cookie(middleware.CookieRefreshToken, "", -1))
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: res.Message})
}

// ttl < 0 は削除
func (h *AuthHandler) cookie(name string, value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	} else {
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}
