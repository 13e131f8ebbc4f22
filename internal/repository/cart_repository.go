package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カートの保存先（1キー = 1カート）。
// 見つからないキーはエラーではなく空のカートを返す。
type CartStorage interface {
	Load(ctx context.Context, key string) (model.CartState, error)
	Save(ctx context.Context, key string, state model.CartState) error
	Delete(ctx context.Context, key string) error
}
