package usecase

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

var (
	errOrderNotCreated   = errors.New("Order Not Created!")
	errPaymentURLMissing = errors.New("Payment session url not created")
)

// 注文フォームと決済アカウント（コマースAPI側の識別子）
type OrderDefaults struct {
	FormIdentifier           string
	PaymentAccountIdentifier string
}

type OrderUsecase struct {
	orders   repo.OrderGateway
	defaults OrderDefaults
	log      *logger.Logger
}

func NewOrderUsecase(orders repo.OrderGateway, defaults OrderDefaults, log *logger.Logger) *OrderUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUsecase{orders: orders, defaults: defaults, log: log}
}

type CheckoutInput struct {
	FormIdentifier           string
	PaymentAccountIdentifier string
	FormData                 []model.FormDataEntry
}

type CheckoutOutput struct {
	OrderID    int64  `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

// Checkout は注文作成→決済セッション作成。カートはここでは消さない
func (u *OrderUsecase) Checkout(ctx context.Context, accessToken string, state model.CartState, in CheckoutInput) (CheckoutOutput, error) {
	if strings.TrimSpace(accessToken) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "Access token not found")
	}

	//数量0の行は注文しない
	lines := make([]model.OrderLine, 0, len(state.Items))
	for _, it := range state.Items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, model.OrderLine{ProductID: it.ID, Quantity: it.Quantity})
	}
	if len(lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	data := model.OrderData{
		FormIdentifier:           firstNonEmpty(in.FormIdentifier, u.defaults.FormIdentifier),
		PaymentAccountIdentifier: firstNonEmpty(in.PaymentAccountIdentifier, u.defaults.PaymentAccountIdentifier),
		FormData:                 in.FormData,
		Products:                 lines,
	}
	if data.FormData == nil {
		data.FormData = []model.FormDataEntry{}
	}

	out, err := u.placeOrder(ctx, accessToken, data)
	if err != nil {
		u.log.Error(ctx, "checkout", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "Failed to create order: "+reason(err))
	}
	return out, nil
}

func (u *OrderUsecase) placeOrder(ctx context.Context, accessToken string, data model.OrderData) (CheckoutOutput, error) {
	order, err := u.orders.CreateOrder(ctx, accessToken, data)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if order.ID == 0 {
		return CheckoutOutput{}, errOrderNotCreated
	}

	session, err := u.orders.CreatePaymentSession(ctx, accessToken, order.ID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if session.PaymentURL == "" {
		return CheckoutOutput{}, errPaymentURLMissing
	}
	return CheckoutOutput{OrderID: order.ID, PaymentURL: session.PaymentURL}, nil
}

// ListOrders は新しい順。取得失敗は空
func (u *OrderUsecase) ListOrders(ctx context.Context, accessToken string) model.OrderList {
	empty := model.OrderList{Items: []model.Order{}}
	if strings.TrimSpace(accessToken) == "" {
		return empty
	}

	list, err := u.orders.ListOrders(ctx, accessToken)
	if err != nil {
		u.log.Error(ctx, "list orders", err)
		return empty
	}
	if list.Items == nil {
		list.Items = []model.Order{}
	}
	slices.Reverse(list.Items)
	return list
}

// 上流のメッセージがあればそれを使う
func reason(err error) string {
	var ue *repo.UpstreamError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	if errors.Is(err, errOrderNotCreated) || errors.Is(err, errPaymentURLMissing) {
		return err.Error()
	}
	return "upstream unavailable"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
