package cart

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

// Registry owns one Store per anonymous cart id. Stores are loaded lazily from storage and
// dropped after idleTTL; the durable copy is what a later Get reloads.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	storage repository.CartStorage
	log     *logger.Logger
	idleTTL time.Duration
	now     func() time.Time
}

type RegistryOption func(*Registry)

// WithIdleTTL evicts stores untouched for ttl on Sweep. Zero keeps them forever.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(storage repository.CartStorage, log *logger.Logger, opts ...RegistryOption) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{
		stores:  map[string]*Store{},
		storage: storage,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// StorageKey is the durable slot for a cart id.
func StorageKey(cartID string) string {
	return model.CartStorageKey + ":" + cartID
}

// Get returns the cart's store, loading it on first access. A load failure yields an empty
// cart together with a *PersistError warning.
func (r *Registry) Get(ctx context.Context, cartID string) (*Store, error) {
	r.mu.Lock()
	if s, ok := r.stores[cartID]; ok {
		// Sweepと競合しないようロック中に更新
		s.touch()
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	key := StorageKey(cartID)
	state := model.CartState{Items: []model.CartLineItem{}}
	var warn error
	if r.storage != nil {
		loaded, err := r.storage.Load(ctx, key)
		if err != nil {
			warn = &PersistError{Op: "load", Key: key, Err: err}
			r.log.Warn(ctx, "cart load failed, starting empty", err)
		} else {
			state = loaded
		}
	}

	s := NewStore(key, state, r.storage)
	s.now = r.now
	s.touch()
	logCtx := r.log.WithCartID(context.Background(), cartID)
	s.Subscribe(func(st model.CartState) {
		r.log.Zerolog(logCtx).Debug().Int("lines", len(st.Items)).Msg("cart changed")
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	// 同時ロードは先勝ち
	if existing, ok := r.stores[cartID]; ok {
		existing.touch()
		return existing, nil
	}
	r.stores[cartID] = s
	return s, warn
}

// Sweep drops idle stores and returns how many were evicted.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.stores {
		if s.idleSince(now) > r.idleTTL {
			delete(r.stores, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.idleTTL <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.log.Zerolog(ctx).Debug().Int("evicted", n).Msg("cart registry sweep")
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
