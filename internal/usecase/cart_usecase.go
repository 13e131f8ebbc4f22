package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
)

// 保存失敗時にレスポンスへ載せる文言
const persistWarning = "cart could not be saved; changes may be lost"

// CartUsecase は /cart の業務ロジックです。
// カートは匿名セッション単位で、cart.Registry が保持します。
type CartUsecase struct {
	carts   *cart.Registry
	catalog repo.CatalogGateway
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewCartUsecase(
	carts *cart.Registry,
	catalog repo.CatalogGateway,
	log *logger.Logger,
	m *metrics.Metrics,
) *CartUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &CartUsecase{
		carts:   carts,
		catalog: catalog,
		log:     log,
		metrics: m,
	}
}

// CartResponse の金額は小数2桁の文字列
type CartResponse struct {
	Items    []model.CartLineItem `json:"items"`
	Subtotal string               `json:"subtotal"`
	Tax      string               `json:"tax"`
	Total    string               `json:"total"`
	Warning  string               `json:"warning,omitempty"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

func (u *CartUsecase) GetCart(ctx context.Context, cartID string) (CartResponse, error) {
	c, err := u.open(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	return u.respond(ctx, "load", c.store.Snapshot(), c.loadWarn), nil
}

// Snapshot は注文作成用の現在のカート
func (u *CartUsecase) Snapshot(ctx context.Context, cartID string) (model.CartState, error) {
	c, err := u.open(ctx, cartID)
	if err != nil {
		return model.CartState{}, err
	}
	return c.store.Snapshot(), nil
}

// AddToCart は商品を解決して追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, cartID string, in AddCartInput) (CartResponse, error) {
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	c, err := u.open(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	s := c.store

	// 追加時点の名前・価格・画像を保持
	p, err := u.catalog.ProductByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		u.log.Error(ctx, "resolve product for cart", err)
		return CartResponse{}, NewHTTPError(http.StatusBadGateway, "Error fetching product details")
	}

	err = s.AddToCart(ctx, model.CartLineItem{
		ID:       p.ID,
		Quantity: in.Quantity,
		Name:     p.Name(),
		Price:    p.Price,
		Image:    p.ImageURL(),
	})
	return u.afterMutation(ctx, "add", s, err)
}

// 数量変更。範囲外はストア側で丸める
func (u *CartUsecase) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int64) (CartResponse, error) {
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.open(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	s := c.store
	return u.afterMutation(ctx, "update", s, s.UpdateQuantity(ctx, productID, quantity))
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, cartID string, productID int64) (CartResponse, error) {
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.open(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	s := c.store
	return u.afterMutation(ctx, "remove", s, s.RemoveFromCart(ctx, productID))
}

func (u *CartUsecase) ClearCart(ctx context.Context, cartID string) (CartResponse, error) {
	c, err := u.open(ctx, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	s := c.store
	return u.afterMutation(ctx, "clear", s, s.ClearCart(ctx))
}

type openedCart struct {
	store    *cart.Store
	loadWarn error
}

// 読み込み失敗は空カート＋警告
func (u *CartUsecase) open(ctx context.Context, cartID string) (openedCart, error) {
	if strings.TrimSpace(cartID) == "" {
		return openedCart{}, NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	s, err := u.carts.Get(ctx, cartID)
	if err != nil && !cart.IsPersistWarning(err) {
		u.log.Error(ctx, "open cart", err)
		return openedCart{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return openedCart{store: s, loadWarn: err}, nil
}

// 保存失敗は警告のみ（メモリ上のカートが正）
func (u *CartUsecase) afterMutation(ctx context.Context, op string, s *cart.Store, err error) (CartResponse, error) {
	if err != nil && !cart.IsPersistWarning(err) {
		u.log.Error(ctx, "cart "+op, err)
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	u.metrics.IncCartMutation(op)
	return u.respond(ctx, op, s.Snapshot(), err), nil
}

func (u *CartUsecase) respond(ctx context.Context, op string, state model.CartState, warn error) CartResponse {
	items := state.Items
	if items == nil {
		items = []model.CartLineItem{}
	}
	t := cart.ComputeTotals(state)
	res := CartResponse{
		Items:    items,
		Subtotal: t.Subtotal.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
	if warn != nil {
		u.metrics.IncPersistFailure(op)
		u.log.Warn(ctx, "cart persistence degraded", warn)
		res.Warning = persistWarning
	}
	return res
}
