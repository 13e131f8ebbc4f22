package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ログイン/会員登録/セッションはコマースAPIに委譲する。
type AuthGateway interface {
	FormByMarker(ctx context.Context, marker string) ([]model.FormAttribute, error)
	Login(ctx context.Context, email string, password string) (model.AuthTokens, error)
	SignUp(ctx context.Context, email string, password string, name string) (model.User, error)
	Logout(ctx context.Context, accessToken string, refreshToken string) error
	CurrentUser(ctx context.Context, accessToken string) (model.User, error)
}
