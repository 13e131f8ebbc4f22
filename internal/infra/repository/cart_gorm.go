package repository

import (
	"context"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cart_snapshots にカート全体をJSONで保存する
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// テーブル作成
func (r *CartGormRepository) Migrate() error {
	return r.db.AutoMigrate(&model.CartSnapshot{})
}

// スナップショットを読む（無ければ空のカート）
func (r *CartGormRepository) Load(ctx context.Context, key string) (model.CartState, error) {
	var snap model.CartSnapshot

	res := r.db.WithContext(ctx).
		Where("cart_key = ?", key).
		Limit(1).
		Find(&snap)

	if res.Error != nil {
		return model.CartState{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.CartState{Items: []model.CartLineItem{}}, nil
	}

	state, _, err := cart.Decode([]byte(snap.Payload))
	if err != nil {
		return model.CartState{}, err
	}
	return state, nil
}

// 全体を上書き（upsert）
func (r *CartGormRepository) Save(ctx context.Context, key string, state model.CartState) error {
	payload, err := cart.Encode(state)
	if err != nil {
		return err
	}

	snap := model.CartSnapshot{
		Key:       key,
		Payload:   string(payload),
		Version:   cart.SnapshotVersion,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "version", "updated_at"}),
		}).
		Create(&snap).Error
}

// 削除（無くてもエラーにしない）
func (r *CartGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("cart_key = ?", key).
		Delete(&model.CartSnapshot{}).Error
}
