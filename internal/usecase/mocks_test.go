package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// =====================
// Gateway mocks
// =====================

type CatalogGatewayMock struct{ mock.Mock }

func (m *CatalogGatewayMock) RootPages(ctx context.Context) ([]model.CatalogPage, error) {
	args := m.Called(ctx)
	pages, _ := args.Get(0).([]model.CatalogPage)
	return pages, args.Error(1)
}

func (m *CatalogGatewayMock) ProductsByPageID(ctx context.Context, q repo.ProductPageQuery) (model.ProductList, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).(model.ProductList)
	return list, args.Error(1)
}

func (m *CatalogGatewayMock) ProductByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogGatewayMock) SearchProducts(ctx context.Context, text string) ([]model.Product, error) {
	args := m.Called(ctx, text)
	found, _ := args.Get(0).([]model.Product)
	return found, args.Error(1)
}

type AuthGatewayMock struct{ mock.Mock }

func (m *AuthGatewayMock) FormByMarker(ctx context.Context, marker string) ([]model.FormAttribute, error) {
	args := m.Called(ctx, marker)
	attrs, _ := args.Get(0).([]model.FormAttribute)
	return attrs, args.Error(1)
}

func (m *AuthGatewayMock) Login(ctx context.Context, email string, password string) (model.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	tokens, _ := args.Get(0).(model.AuthTokens)
	return tokens, args.Error(1)
}

func (m *AuthGatewayMock) SignUp(ctx context.Context, email string, password string, name string) (model.User, error) {
	args := m.Called(ctx, email, password, name)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *AuthGatewayMock) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *AuthGatewayMock) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	args := m.Called(ctx, accessToken)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

type OrderGatewayMock struct{ mock.Mock }

func (m *OrderGatewayMock) CreateOrder(ctx context.Context, accessToken string, data model.OrderData) (model.Order, error) {
	args := m.Called(ctx, accessToken, data)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderGatewayMock) CreatePaymentSession(ctx context.Context, accessToken string, orderID int64) (model.PaymentSession, error) {
	args := m.Called(ctx, accessToken, orderID)
	s, _ := args.Get(0).(model.PaymentSession)
	return s, args.Error(1)
}

func (m *OrderGatewayMock) ListOrders(ctx context.Context, accessToken string) (model.OrderList, error) {
	args := m.Called(ctx, accessToken)
	list, _ := args.Get(0).(model.OrderList)
	return list, args.Error(1)
}

// =====================
// Cart storage mock
// =====================

type CartStorageMock struct{ mock.Mock }

func (m *CartStorageMock) Load(ctx context.Context, key string) (model.CartState, error) {
	args := m.Called(ctx, key)
	s, _ := args.Get(0).(model.CartState)
	return s, args.Error(1)
}

func (m *CartStorageMock) Save(ctx context.Context, key string, state model.CartState) error {
	args := m.Called(ctx, key, state)
	return args.Error(0)
}

func (m *CartStorageMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func product(id int64, title string, price float64, pageID int64) model.Product {
	p := model.Product{ID: id, Price: price}
	p.AttributeValues.Title.Value = title
	p.AttributeValues.Image.Value.DownloadLink = "https://cdn.example.test/" + title + ".png"
	if pageID > 0 {
		p.ProductPages = []model.ProductPage{{PageID: pageID}}
	}
	return p
}
