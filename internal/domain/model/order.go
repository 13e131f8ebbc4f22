package model

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// コマースAPIの注文
type Order struct {
	ID               int64          `json:"id"`
	CreatedDate      string         `json:"createdDate"`
	StatusIdentifier OrderStatus    `json:"statusIdentifier"`
	TotalSum         string         `json:"totalSum"`
	Products         []OrderProduct `json:"products"`
}

type OrderProduct struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity *int64  `json:"quantity"`
}

type OrderList struct {
	Items []Order `json:"items"`
	Total int64   `json:"total"`
}

// 注文作成リクエスト
type OrderData struct {
	FormIdentifier           string          `json:"formIdentifier"`
	PaymentAccountIdentifier string          `json:"paymentAccountIdentifier"`
	FormData                 []FormDataEntry `json:"formData"`
	Products                 []OrderLine     `json:"products"`
}

type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type FormDataEntry struct {
	Marker string `json:"marker"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

type PaymentSession struct {
	ID         int64  `json:"id"`
	PaymentURL string `json:"paymentUrl"`
}
