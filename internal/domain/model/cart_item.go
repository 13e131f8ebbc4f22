package model

// カートの明細
// name/price/image は追加時点の値を保持（カタログから再取得しない）。
type CartLineItem struct {
	ID       int64   `json:"id"`
	Quantity int64   `json:"quantity"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}
