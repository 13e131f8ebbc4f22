package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// go-redisのうち使うコマンドだけ（テストで差し替える）
type cartCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// キー cart-storage:<id> にスナップショットを置く。ttlごとに期限延長。
type CartRedisRepository struct {
	client cartCmdable
	ttl    time.Duration
}

// DI（ttl=0なら期限なし）
func NewCartRedisRepository(client redis.Cmdable, ttl time.Duration) *CartRedisRepository {
	return &CartRedisRepository{client: client, ttl: ttl}
}

func (r *CartRedisRepository) Load(ctx context.Context, key string) (model.CartState, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CartState{Items: []model.CartLineItem{}}, nil
	}
	if err != nil {
		return model.CartState{}, err
	}

	state, _, err := cart.Decode(data)
	if err != nil {
		return model.CartState{}, err
	}
	return state, nil
}

func (r *CartRedisRepository) Save(ctx context.Context, key string, state model.CartState) error {
	payload, err := cart.Encode(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, payload, r.ttl).Err()
}

func (r *CartRedisRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
