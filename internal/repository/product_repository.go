package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ページ単位の商品取得条件
type ProductPageQuery struct {
	PageID int64
	Limit  int
	Offset int
}

// カタログ/検索はコマースAPIに委譲する。
type CatalogGateway interface {
	RootPages(ctx context.Context) ([]model.CatalogPage, error)
	ProductsByPageID(ctx context.Context, q ProductPageQuery) (model.ProductList, error)
	ProductByID(ctx context.Context, id int64) (model.Product, error)
	SearchProducts(ctx context.Context, text string) ([]model.Product, error)
}
