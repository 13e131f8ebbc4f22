package repository

import (
	"context"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/domain/model"
)

// プロセス内のみ（開発・テスト用）。
// 保存時にエンコードしておき、読む側と状態を共有しない。
type CartMemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewCartMemoryRepository() *CartMemoryRepository {
	return &CartMemoryRepository{data: map[string][]byte{}}
}

func (r *CartMemoryRepository) Load(_ context.Context, key string) (model.CartState, error) {
	r.mu.RLock()
	raw := r.data[key]
	r.mu.RUnlock()

	state, _, err := cart.Decode(raw)
	return state, err
}

func (r *CartMemoryRepository) Save(_ context.Context, key string, state model.CartState) error {
	payload, err := cart.Encode(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[key] = payload
	r.mu.Unlock()
	return nil
}

func (r *CartMemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}
