package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

// ログイン・新規登録フォームのマーカー
const (
	FormSignIn = "sign-in"
	FormSignUp = "sign-up"
)

const (
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgNotLoggedIn    = "Currently You are not logged in."
	msgLoggedOut      = "User logged out successfully"
)

type AuthUsecase struct {
	auth repository.AuthGateway
	log  *logger.Logger
	now  func() time.Time
}

// DI
func NewAuthUsecase(auth repository.AuthGateway, log *logger.Logger) *AuthUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUsecase{
		auth: auth,
		log:  log,
		now:  time.Now,
	}
}

// SessionResult は GET /auth/session の応答
// Expired のときだけ Message が入る（ゲストは無言）
type SessionResult struct {
	Status  model.SessionStatus `json:"status"`
	User    *model.User         `json:"user,omitempty"`
	Message string              `json:"message,omitempty"`
}

type LoginInput struct {
	Email    string
	Password string
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type LogoutResult struct {
	Message string `json:"message"`
	// Cookieを消すかどうか
	LoggedOut bool `json:"-"`
}

// Session はアクセストークンからユーザーを引く。
// トークン無し→None、トークンがあって取れなければExpired（401以外はログも出す）
func (u *AuthUsecase) Session(ctx context.Context, accessToken string) SessionResult {
	if strings.TrimSpace(accessToken) == "" {
		return SessionResult{Status: model.SessionNone}
	}
	if tokenExpired(accessToken, u.now()) {
		return expiredSession()
	}

	user, err := u.auth.CurrentUser(ctx, accessToken)
	if err != nil {
		if repository.StatusOf(err) == http.StatusUnauthorized {
			return expiredSession()
		}
		u.log.Error(ctx, "fetch current user", err)
		return expiredSession()
	}
	if user.ID == 0 {
		u.log.Warn(ctx, "current user has no id", nil)
		return expiredSession()
	}
	return SessionResult{Status: model.SessionActive, User: &user}
}

func expiredSession() SessionResult {
	return SessionResult{Status: model.SessionExpired, Message: msgSessionExpired}
}

// 署名は検証しない（検証はコマースAPI側）。expだけ先に見る
func tokenExpired(raw string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}

// Form は sign-in / sign-up フォームの属性
func (u *AuthUsecase) Form(ctx context.Context, marker string) ([]model.FormAttribute, error) {
	switch marker {
	case FormSignIn, FormSignUp:
	default:
		return nil, NewHTTPError(http.StatusNotFound, "form not found")
	}

	attrs, err := u.auth.FormByMarker(ctx, marker)
	if err != nil {
		u.log.Error(ctx, "fetch form "+marker, err)
		return nil, NewHTTPError(http.StatusBadGateway, "Error getting form data")
	}
	if attrs == nil {
		attrs = []model.FormAttribute{}
	}
	return attrs, nil
}

func (u *AuthUsecase) LoginForm(ctx context.Context) ([]model.FormAttribute, error) {
	return u.Form(ctx, FormSignIn)
}

func (u *AuthUsecase) SignupForm(ctx context.Context) ([]model.FormAttribute, error) {
	return u.Form(ctx, FormSignUp)
}

// Login は 401 をそのままフォーム向けメッセージで返す
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (model.AuthTokens, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return model.AuthTokens{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	tokens, err := u.auth.Login(ctx, email, in.Password)
	if err != nil {
		var apiErr *repository.UpstreamError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return model.AuthTokens{}, NewHTTPError(http.StatusUnauthorized, apiErr.Message)
		}
		u.log.Error(ctx, "login", err)
		return model.AuthTokens{}, NewHTTPError(http.StatusInternalServerError, "Error logging in")
	}
	if tokens.AccessToken == "" {
		return model.AuthTokens{}, NewHTTPError(http.StatusUnauthorized, "Invalid login credentials")
	}
	return tokens, nil
}

func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (model.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.auth.SignUp(ctx, email, in.Password, strings.TrimSpace(in.Name))
	if err != nil {
		var apiErr *repository.UpstreamError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return model.User{}, NewHTTPError(http.StatusBadRequest, apiErr.Message)
		}
		u.log.Error(ctx, "signup", err)
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Error signing up")
	}
	return user, nil
}

// Logout はどちらかのトークンが無ければ何もしない
func (u *AuthUsecase) Logout(ctx context.Context, accessToken string, refreshToken string) (LogoutResult, error) {
	if accessToken == "" || refreshToken == "" {
		return LogoutResult{Message: msgNotLoggedIn}, nil
	}

	if err := u.auth.Logout(ctx, accessToken, refreshToken); err != nil {
		var apiErr *repository.UpstreamError
		if errors.As(err, &apiErr) {
			return LogoutResult{}, NewHTTPError(apiErr.StatusCode, apiErr.Message)
		}
		u.log.Error(ctx, "logout", err)
		return LogoutResult{}, NewHTTPError(http.StatusInternalServerError, "Failed to logout user")
	}
	return LogoutResult{Message: msgLoggedOut, LoggedOut: true}, nil
}
