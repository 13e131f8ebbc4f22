package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
)

// =====================
// Mocks
// =====================

type storageMock struct{ mock.Mock }

func (m *storageMock) Load(ctx context.Context, key string) (model.CartState, error) {
	args := m.Called(ctx, key)
	st, _ := args.Get(0).(model.CartState)
	return st, args.Error(1)
}

func (m *storageMock) Save(ctx context.Context, key string, state model.CartState) error {
	args := m.Called(ctx, key, state)
	return args.Error(0)
}

func (m *storageMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// 保存内容をそのまま覚えるだけのストレージ
type mapStorage struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: map[string][]byte{}}
}

func (s *mapStorage) Load(_ context.Context, key string) (model.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _, err := Decode(s.data[key])
	return st, err
}

func (s *mapStorage) Save(_ context.Context, key string, state model.CartState) error {
	b, err := Encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = b
	s.saves++
	return nil
}

func (s *mapStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func line(id int64, qty int64, name string, price float64) model.CartLineItem {
	return model.CartLineItem{ID: id, Quantity: qty, Name: name, Price: price, Image: name + ".png"}
}

func newEmptyStore(storage *mapStorage) *Store {
	return NewStore("cart-storage:test", model.CartState{}, storage)
}

// =====================
// AddToCart
// =====================

func TestStore_AddToCart_DistinctIDsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())

	require.NoError(t, s.AddToCart(ctx, line(3, 1, "c", 3)))
	require.NoError(t, s.AddToCart(ctx, line(1, 2, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(2, 4, "b", 2)))
	require.NoError(t, s.AddToCart(ctx, line(1, 1, "a", 1)))

	items := s.Snapshot().Items
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, []int64{1, 3, 4}, []int64{items[0].Quantity, items[1].Quantity, items[2].Quantity})
}

func TestStore_AddToCart_MergeKeepsFirstFields(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())

	require.NoError(t, s.AddToCart(ctx, model.CartLineItem{ID: 1, Quantity: 2, Name: "first", Price: 10, Image: "first.png"}))
	require.NoError(t, s.AddToCart(ctx, model.CartLineItem{ID: 1, Quantity: 3, Name: "second", Price: 99, Image: "second.png"}))

	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, model.CartLineItem{ID: 1, Quantity: 5, Name: "first", Price: 10, Image: "first.png"}, items[0])
}

func TestStore_AddToCart_NeverDropsBelowZero(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())

	require.NoError(t, s.AddToCart(ctx, line(1, 2, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(1, -7, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(2, -1, "b", 1)))

	items := s.Snapshot().Items
	assert.Equal(t, int64(0), items[0].Quantity)
	assert.Equal(t, int64(0), items[1].Quantity)
}

func TestStore_AddToCart_MergeSaturatesAtMaxInt64(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())

	require.NoError(t, s.AddToCart(ctx, line(1, math.MaxInt64, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(1, 1, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(1, math.MaxInt64, "a", 1)))

	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, int64(math.MaxInt64), items[0].Quantity)
}

func TestAddQuantity(t *testing.T) {
	assert.Equal(t, int64(5), addQuantity(2, 3))
	assert.Equal(t, int64(-1), addQuantity(2, -3))
	assert.Equal(t, int64(math.MaxInt64), addQuantity(math.MaxInt64-1, 2))
	assert.Equal(t, int64(math.MinInt64), addQuantity(math.MinInt64+1, -2))
}

// =====================
// UpdateQuantity / Remove / Clear
// =====================

func TestStore_UpdateQuantity_ClampsAndKeepsZeroLine(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())
	require.NoError(t, s.AddToCart(ctx, line(1, 5, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(2, 1, "b", 1)))

	require.NoError(t, s.UpdateQuantity(ctx, 1, -5))

	items := s.Snapshot().Items
	require.Len(t, items, 2)
	assert.Equal(t, int64(0), items[0].Quantity)
	assert.Equal(t, int64(1), items[1].Quantity)
}

func TestStore_UpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())
	require.NoError(t, s.AddToCart(ctx, line(1, 5, "a", 1)))
	before := s.Snapshot()

	require.NoError(t, s.UpdateQuantity(ctx, 42, 9))

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_RemoveFromCart_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())
	require.NoError(t, s.AddToCart(ctx, line(1, 1, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(2, 1, "b", 1)))
	before := s.Snapshot()

	require.NoError(t, s.RemoveFromCart(ctx, 999))
	assert.Equal(t, before, s.Snapshot())

	require.NoError(t, s.RemoveFromCart(ctx, 1))
	require.NoError(t, s.RemoveFromCart(ctx, 1))
	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestStore_ClearCart_EmptiesAndZeroesSubtotal(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())
	require.NoError(t, s.AddToCart(ctx, line(1, 3, "a", 9.5)))

	require.NoError(t, s.ClearCart(ctx))

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.True(t, Subtotal(snap).IsZero())
}

// =====================
// Persistence
// =====================

func TestStore_EveryMutationPersistsFullState(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	s := newEmptyStore(storage)

	require.NoError(t, s.AddToCart(ctx, line(1, 2, "a", 4)))
	require.NoError(t, s.AddToCart(ctx, line(2, 1, "b", 6)))
	require.NoError(t, s.UpdateQuantity(ctx, 2, 3))
	require.NoError(t, s.RemoveFromCart(ctx, 1))

	assert.Equal(t, 4, storage.saves)
	persisted, err := storage.Load(ctx, s.Key())
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), persisted)
}

func TestStore_PersistFailureIsWarningOnly(t *testing.T) {
	ctx := context.Background()
	storage := new(storageMock)
	storage.On("Save", mock.Anything, "k", mock.Anything).Return(errors.New("quota exceeded"))
	s := NewStore("k", model.CartState{}, storage)

	err := s.AddToCart(ctx, line(1, 1, "a", 1))

	require.Error(t, err)
	assert.True(t, IsPersistWarning(err))
	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "add", pe.Op)
	assert.Contains(t, err.Error(), "quota exceeded")

	// メモリ上の状態は更新済み
	require.Len(t, s.Snapshot().Items, 1)
	storage.AssertExpectations(t)
}

func TestStore_NilStorageStillWorks(t *testing.T) {
	s := NewStore("k", model.CartState{}, nil)
	assert.NoError(t, s.AddToCart(context.Background(), line(1, 1, "a", 1)))
	assert.Len(t, s.Snapshot().Items, 1)
}

// =====================
// Subscribers
// =====================

func TestStore_SubscribersSeeEachWholeState(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())

	var seen []int
	unsubscribe := s.Subscribe(func(st model.CartState) {
		seen = append(seen, len(st.Items))
	})

	require.NoError(t, s.AddToCart(ctx, line(1, 1, "a", 1)))
	require.NoError(t, s.AddToCart(ctx, line(2, 1, "b", 1)))
	require.NoError(t, s.ClearCart(ctx))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.AddToCart(ctx, line(3, 1, "c", 1)))

	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestStore_SubscriberCopyIsPrivate(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(newMapStorage())
	s.Subscribe(func(st model.CartState) {
		for i := range st.Items {
			st.Items[i].Quantity = 1000
		}
	})

	require.NoError(t, s.AddToCart(ctx, line(1, 1, "a", 1)))

	assert.Equal(t, int64(1), s.Snapshot().Items[0].Quantity)
}

// =====================
// Concurrency
// =====================

func TestStore_ConcurrentAddsAreAtomic(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	s := newEmptyStore(storage)

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = s.AddToCart(ctx, line(int64(i%5), 1, "x", 1))
			}
		}(w)
	}
	wg.Wait()

	items := s.Snapshot().Items
	require.Len(t, items, 5)
	var total int64
	for _, it := range items {
		total += it.Quantity
	}
	assert.Equal(t, int64(workers*perWorker), total)

	persisted, err := storage.Load(ctx, s.Key())
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), persisted)
}
