package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

func (c *Client) RootPages(ctx context.Context) ([]model.CatalogPage, error) {
	var pages []model.CatalogPage
	err := c.do(ctx, request{
		op:     "pages.root",
		method: http.MethodGet,
		path:   "/pages/root",
	}, &pages)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Client) ProductsByPageID(ctx context.Context, q repo.ProductPageQuery) (model.ProductList, error) {
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	var list model.ProductList
	err := c.do(ctx, request{
		op:     "products.by_page",
		method: http.MethodPost,
		path:   "/products/page/" + strconv.FormatInt(q.PageID, 10),
		query:  query,
		body:   []any{},
	}, &list)
	if err != nil {
		return model.ProductList{}, err
	}
	return list, nil
}

func (c *Client) ProductByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, request{
		op:     "products.get",
		method: http.MethodGet,
		path:   "/products/" + strconv.FormatInt(id, 10),
	}, &p)
	if err != nil {
		if repo.StatusOf(err) == http.StatusNotFound {
			return model.Product{}, repo.ErrNotFound
		}
		return model.Product{}, err
	}
	return p, nil
}

func (c *Client) SearchProducts(ctx context.Context, text string) ([]model.Product, error) {
	var products []model.Product
	err := c.do(ctx, request{
		op:     "products.search",
		method: http.MethodGet,
		path:   "/products/quick/search",
		query:  url.Values{"name": []string{text}},
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}
