package commerce

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
)

// 注文ストレージのマーカー
const ordersMarker = "orders"

type paymentSessionRequest struct {
	OrderID int64  `json:"orderId"`
	Type    string `json:"type"`
}

func (c *Client) CreateOrder(ctx context.Context, accessToken string, data model.OrderData) (model.Order, error) {
	var order model.Order
	err := c.do(ctx, request{
		op:          "orders.create",
		method:      http.MethodPost,
		path:        "/orders-storage/marker/" + ordersMarker + "/orders",
		accessToken: accessToken,
		body:        data,
	}, &order)
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (c *Client) CreatePaymentSession(ctx context.Context, accessToken string, orderID int64) (model.PaymentSession, error) {
	var session model.PaymentSession
	err := c.do(ctx, request{
		op:          "payments.session",
		method:      http.MethodPost,
		path:        "/payments/sessions",
		accessToken: accessToken,
		body:        paymentSessionRequest{OrderID: orderID, Type: "session"},
	}, &session)
	if err != nil {
		return model.PaymentSession{}, err
	}
	return session, nil
}

func (c *Client) ListOrders(ctx context.Context, accessToken string) (model.OrderList, error) {
	var list model.OrderList
	err := c.do(ctx, request{
		op:          "orders.list",
		method:      http.MethodGet,
		path:        "/orders-storage/marker/" + ordersMarker + "/orders",
		accessToken: accessToken,
	}, &list)
	if err != nil {
		return model.OrderList{}, err
	}
	return list, nil
}
