package cart

import (
	"context"
	"maps"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// Store is one cart: an ordered set of line items mirrored to storage on every mutation.
//
// Each mutation is a whole-state replacement done under a single-writer lock, persisted
// before the lock is released, then announced to subscribers in mutation order.
// Subscribers receive a private copy and must not mutate the store synchronously.
type Store struct {
	mu      sync.Mutex
	key     string
	state   model.CartState
	storage repository.CartStorage

	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[int]func(model.CartState)
	nextSub  int

	lastUsed atomic.Int64
	now      func() time.Time
}

// NewStore wraps an already loaded state. storage may be nil (no durable copy).
func NewStore(key string, initial model.CartState, storage repository.CartStorage) *Store {
	s := &Store{
		key:     key,
		state:   normalize(initial.Items),
		storage: storage,
		subs:    map[int]func(model.CartState){},
		now:     time.Now,
	}
	s.touch()
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.Clone()
}

// Subscribe registers fn and returns its unsubscribe func.
func (s *Store) Subscribe(fn func(model.CartState)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// AddToCart merges by id: an existing line keeps its name/price/image and gains the quantity,
// a new id is appended.
func (s *Store) AddToCart(ctx context.Context, item model.CartLineItem) error {
	return s.mutate(ctx, "add", func(items []model.CartLineItem) []model.CartLineItem {
		next := make([]model.CartLineItem, len(items), len(items)+1)
		copy(next, items)
		return mergeLine(next, item)
	})
}

// UpdateQuantity sets max(0, quantity) on the matching line. Zero-quantity lines stay in the cart.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	qty := clampQuantity(quantity)
	return s.mutate(ctx, "update", func(items []model.CartLineItem) []model.CartLineItem {
		next := make([]model.CartLineItem, len(items))
		for i, it := range items {
			if it.ID == id {
				it.Quantity = qty
			}
			next[i] = it
		}
		return next
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, id int64) error {
	return s.mutate(ctx, "remove", func(items []model.CartLineItem) []model.CartLineItem {
		next := make([]model.CartLineItem, 0, len(items))
		for _, it := range items {
			if it.ID != id {
				next = append(next, it)
			}
		}
		return next
	})
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "clear", func([]model.CartLineItem) []model.CartLineItem {
		return []model.CartLineItem{}
	})
}

// mutate never fails; the returned error is a *PersistError only.
func (s *Store) mutate(ctx context.Context, op string, fn func([]model.CartLineItem) []model.CartLineItem) error {
	s.mu.Lock()
	s.state = model.CartState{Items: fn(s.state.Items)}
	s.touch()

	var err error
	if s.storage != nil {
		if saveErr := s.storage.Save(ctx, s.key, s.state.Clone()); saveErr != nil {
			err = &PersistError{Op: op, Key: s.key, Err: saveErr}
		}
	}
	snap := s.state.Clone()

	// 通知順をミューテーション順に揃える
	s.notifyMu.Lock()
	s.mu.Unlock()
	s.notify(snap)
	s.notifyMu.Unlock()

	return err
}

func (s *Store) notify(state model.CartState) {
	s.subsMu.Lock()
	fns := make([]func(model.CartState), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
}

func (s *Store) touch() {
	s.lastUsed.Store(s.now().UnixNano())
}

func (s *Store) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

// 同じIDは数量を加算（既存の name/price/image を残す）、無ければ末尾に追加
func mergeLine(items []model.CartLineItem, item model.CartLineItem) []model.CartLineItem {
	for i, it := range items {
		if it.ID == item.ID {
			items[i].Quantity = clampQuantity(addQuantity(it.Quantity, item.Quantity))
			return items
		}
	}
	item.Quantity = clampQuantity(item.Quantity)
	return append(items, item)
}

// 加算はint64の上限で頭打ち
func addQuantity(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

func clampQuantity(q int64) int64 {
	if q < 0 {
		return 0
	}
	return q
}
