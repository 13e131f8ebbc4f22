package model

import "time"

// カートの永続化スロット名
const CartStorageKey = "cart-storage"

// 1カートにつき同じ商品IDの明細は1つ。
// 並びは最初に追加した順。
type CartState struct {
	Items []CartLineItem `json:"cart"`
}

// Cloneは明細スライスを複製する（購読者に内部状態を渡さない）
func (s CartState) Clone() CartState {
	items := make([]CartLineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items}
}

// Findはidの明細を返す
func (s CartState) Find(id int64) (CartLineItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CartLineItem{}, false
}

// DBに保存するカートのスナップショット（1行 = 1カート）
type CartSnapshot struct {
	Key       string    `gorm:"column:cart_key;primaryKey;type:varchar(128)" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	Version   int       `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
