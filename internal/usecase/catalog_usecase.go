package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

const (
	catalogPreviewLimit = 4
	relatedLimit        = 5
	catalogFanout       = 4
)

type CatalogUsecase struct {
	catalog repo.CatalogGateway
	log     *logger.Logger
}

// DI
func NewCatalogUsecase(catalog repo.CatalogGateway, log *logger.Logger) *CatalogUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUsecase{
		catalog: catalog,
		log:     log,
	}
}

// カタログ用ページのみ返す。取得失敗は空
func (u *CatalogUsecase) GetCatalog(ctx context.Context) []model.CatalogPage {
	pages, err := u.catalog.RootPages(ctx)
	if err != nil {
		u.log.Error(ctx, "fetch catalog pages", err)
		return []model.CatalogPage{}
	}

	out := make([]model.CatalogPage, 0, len(pages))
	for _, p := range pages {
		if p.Type == model.PageTypeCatalog {
			out = append(out, p)
		}
	}
	return out
}

// 各カタログページの先頭4件。ページ単位の失敗は空リスト
func (u *CatalogUsecase) GetCatalogProducts(ctx context.Context) []model.CatalogWithProducts {
	pages := u.GetCatalog(ctx)
	out := make([]model.CatalogWithProducts, len(pages))

	var g errgroup.Group
	g.SetLimit(catalogFanout)
	for i, page := range pages {
		g.Go(func() error {
			list, err := u.catalog.ProductsByPageID(ctx, repo.ProductPageQuery{
				PageID: page.ID,
				Limit:  catalogPreviewLimit,
			})
			if err != nil {
				u.log.Zerolog(ctx).Error().Err(err).Int64("page_id", page.ID).Msg("fetch catalog products")
				list = model.ProductList{Items: []model.Product{}}
			}
			if list.Items == nil {
				list.Items = []model.Product{}
			}
			out[i] = model.CatalogWithProducts{CatalogPage: page, CatalogProducts: list}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (u *CatalogUsecase) GetProductDetails(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product ID is required")
	}

	p, err := u.catalog.ProductByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		u.log.Error(ctx, "fetch product details", err)
		return model.Product{}, NewHTTPError(http.StatusBadGateway, "Error fetching product details")
	}
	return p, nil
}

// 同じページの商品（自分自身は除く）
func (u *CatalogUsecase) GetRelatedProducts(ctx context.Context, pageID int64, excludeID int64) ([]model.Product, error) {
	if pageID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "PageId is required")
	}

	list, err := u.catalog.ProductsByPageID(ctx, repo.ProductPageQuery{
		PageID: pageID,
		Limit:  relatedLimit,
	})
	if err != nil {
		u.log.Error(ctx, "fetch related products", err)
		return nil, NewHTTPError(http.StatusBadGateway, "Error fetching related products")
	}

	out := make([]model.Product, 0, len(list.Items))
	for _, p := range list.Items {
		if p.ID == excludeID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (u *CatalogUsecase) SearchProduct(ctx context.Context, text string) ([]model.Product, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		return []model.Product{}, nil
	}

	found, err := u.catalog.SearchProducts(ctx, q)
	if err != nil {
		u.log.Error(ctx, "search products", err)
		return nil, NewHTTPError(http.StatusBadGateway, "Error searching products")
	}
	if found == nil {
		return []model.Product{}, nil
	}
	return found, nil
}
