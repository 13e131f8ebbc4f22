package cart

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain/model"
)

// 永続化フォーマットのバージョン
const SnapshotVersion = 0

// { "state": { "cart": [...] }, "version": 0 }
type envelope struct {
	State   envelopeState `json:"state"`
	Version int           `json:"version"`
}

type envelopeState struct {
	Cart []model.CartLineItem `json:"cart"`
}

// Encodeはカート全体をスナップショットにする
func Encode(state model.CartState) ([]byte, error) {
	items := state.Items
	if items == nil {
		items = []model.CartLineItem{}
	}
	b, err := json.Marshal(envelope{
		State:   envelopeState{Cart: items},
		Version: SnapshotVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return b, nil
}

// Decodeはスナップショットを読む。
// 未知のフィールドは無視、cartが無ければ空。壊れた明細（重複ID・負数）は正規化する。
func Decode(data []byte) (model.CartState, int, error) {
	if len(data) == 0 {
		return model.CartState{Items: []model.CartLineItem{}}, SnapshotVersion, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.CartState{}, 0, fmt.Errorf("decode cart: %w", err)
	}

	return normalize(env.State.Cart), env.Version, nil
}

func normalize(in []model.CartLineItem) model.CartState {
	items := make([]model.CartLineItem, 0, len(in))
	for _, it := range in {
		items = mergeLine(items, it)
	}
	return model.CartState{Items: items}
}
