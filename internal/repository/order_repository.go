package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文と決済セッションはコマースAPIに委譲する。
type OrderGateway interface {
	CreateOrder(ctx context.Context, accessToken string, data model.OrderData) (model.Order, error)
	CreatePaymentSession(ctx context.Context, accessToken string, orderID int64) (model.PaymentSession, error)
	ListOrders(ctx context.Context, accessToken string) (model.OrderList, error)
}
