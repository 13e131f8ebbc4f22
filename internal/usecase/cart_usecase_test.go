package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/domain/model"
	infra "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

func newCartUsecase(t *testing.T, storage repo.CartStorage) (*usecase.CartUsecase, *CatalogGatewayMock, *prometheus.Registry) {
	t.Helper()
	gw := new(CatalogGatewayMock)
	reg := prometheus.NewRegistry()
	u := usecase.NewCartUsecase(cart.NewRegistry(storage, nil), gw, nil, metrics.New(reg))
	return u, gw, reg
}

func TestCartUsecase_GetCart_EmptyCart(t *testing.T) {
	u, _, _ := newCartUsecase(t, infra.NewCartMemoryRepository())

	res, err := u.GetCart(context.Background(), "c1")
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, "0.00", res.Subtotal)
	assert.Equal(t, "0.00", res.Tax)
	assert.Equal(t, "0.00", res.Total)
	assert.Empty(t, res.Warning)
}

func TestCartUsecase_GetCart_MissingSession(t *testing.T) {
	u, _, _ := newCartUsecase(t, infra.NewCartMemoryRepository())

	_, err := u.GetCart(context.Background(), " ")
	assertHTTPError(t, err, http.StatusBadRequest, "missing cart session")
}

func TestCartUsecase_AddToCart_ResolvesProductAndTotals(t *testing.T) {
	ctx := context.Background()
	u, gw, _ := newCartUsecase(t, infra.NewCartMemoryRepository())
	gw.On("ProductByID", ctx, int64(1)).Return(product(1, "lamp", 10, 0), nil)
	gw.On("ProductByID", ctx, int64(2)).Return(product(2, "desk", 5, 0), nil)

	_, err := u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	// quantity省略は1
	res, err := u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 2})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, model.CartLineItem{ID: 1, Quantity: 2, Name: "lamp", Price: 10, Image: "https://cdn.example.test/lamp.png"}, res.Items[0])
	assert.Equal(t, int64(1), res.Items[1].Quantity)
	assert.Equal(t, "25.00", res.Subtotal)
	assert.Equal(t, "1.75", res.Tax)
	assert.Equal(t, "26.75", res.Total)
}

func TestCartUsecase_AddToCart_Validation(t *testing.T) {
	ctx := context.Background()
	u, gw, _ := newCartUsecase(t, infra.NewCartMemoryRepository())
	gw.On("ProductByID", ctx, int64(404)).Return(nil, repo.ErrNotFound)
	gw.On("ProductByID", ctx, int64(500)).Return(nil, errors.New("down"))

	_, err := u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 0, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product_id")

	_, err = u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 1, Quantity: -1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")

	_, err = u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 404, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "")

	_, err = u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 500, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadGateway, "")

	res, err := u.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestCartUsecase_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	u, gw, _ := newCartUsecase(t, infra.NewCartMemoryRepository())
	gw.On("ProductByID", ctx, int64(1)).Return(product(1, "lamp", 10, 0), nil)
	gw.On("ProductByID", ctx, int64(2)).Return(product(2, "desk", 5, 0), nil)
	_, err := u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	_, err = u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	// 負数は0に丸めて行は残す
	res, err := u.UpdateQuantity(ctx, "c1", 1, -3)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(0), res.Items[0].Quantity)
	assert.Equal(t, "5.00", res.Subtotal)

	res, err = u.RemoveFromCart(ctx, "c1", 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = u.RemoveFromCart(ctx, "c1", 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = u.ClearCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, "0.00", res.Total)

	_, err = u.UpdateQuantity(ctx, "c1", 0, 1)
	assertHTTPError(t, err, http.StatusBadRequest, "invalid id")
}

func TestCartUsecase_CartsAreIsolatedBySession(t *testing.T) {
	ctx := context.Background()
	u, gw, _ := newCartUsecase(t, infra.NewCartMemoryRepository())
	gw.On("ProductByID", ctx, int64(1)).Return(product(1, "lamp", 10, 0), nil)

	_, err := u.AddToCart(ctx, "a", usecase.AddCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	other, err := u.Snapshot(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCartUsecase_PersistFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	storage := new(CartStorageMock)
	storage.On("Load", mock.Anything, cart.StorageKey("c1")).Return(model.CartState{}, nil)
	storage.On("Save", mock.Anything, cart.StorageKey("c1"), mock.Anything).Return(errors.New("disk full"))
	u, gw, reg := newCartUsecase(t, storage)
	gw.On("ProductByID", ctx, int64(1)).Return(product(1, "lamp", 10, 0), nil)

	res, err := u.AddToCart(ctx, "c1", usecase.AddCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
	require.Len(t, res.Items, 1)

	n, err := testutil.GatherAndCount(reg, "storefront_cart_persist_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCartUsecase_LoadFailureStartsEmptyWithWarning(t *testing.T) {
	ctx := context.Background()
	storage := new(CartStorageMock)
	storage.On("Load", mock.Anything, cart.StorageKey("c1")).Return(nil, errors.New("conn refused"))
	u, _, _ := newCartUsecase(t, storage)

	res, err := u.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotEmpty(t, res.Warning)

	// 2回目はメモリ上のカート
	res, err = u.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
}
