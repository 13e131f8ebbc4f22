package model

// コマースAPIの商品レコード（使うフィールドだけ）
type Product struct {
	ID              int64           `json:"id"`
	Price           float64         `json:"price"`
	LocalizeInfos   LocalizeInfos   `json:"localizeInfos"`
	AttributeValues AttributeValues `json:"attributeValues"`
	ProductPages    []ProductPage   `json:"productPages,omitempty"`
}

type LocalizeInfos struct {
	Title string `json:"title"`
}

type AttributeValues struct {
	Title TitleAttribute `json:"p_title"`
	Image ImageAttribute `json:"p_image"`
}

type TitleAttribute struct {
	Value string `json:"value"`
}

type ImageAttribute struct {
	Value ImageValue `json:"value"`
}

type ImageValue struct {
	DownloadLink string `json:"downloadLink"`
}

type ProductPage struct {
	PageID int64 `json:"pageId"`
}

// 表示名（p_titleが空ならlocalizeInfos.title）
func (p Product) Name() string {
	if p.AttributeValues.Title.Value != "" {
		return p.AttributeValues.Title.Value
	}
	return p.LocalizeInfos.Title
}

func (p Product) ImageURL() string {
	return p.AttributeValues.Image.Value.DownloadLink
}

// 先頭のカタログページID（関連商品の取得に使う）
func (p Product) PrimaryPageID() int64 {
	if len(p.ProductPages) == 0 {
		return 0
	}
	return p.ProductPages[0].PageID
}

// ページ単位の商品一覧
type ProductList struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

const PageTypeCatalog = "forCatalogPages"

// カタログページ
type CatalogPage struct {
	ID            int64         `json:"id"`
	PageURL       string        `json:"pageUrl"`
	Type          string        `json:"type"`
	LocalizeInfos LocalizeInfos `json:"localizeInfos"`
}

// カタログページと先頭商品
type CatalogWithProducts struct {
	CatalogPage
	CatalogProducts ProductList `json:"catalogProducts"`
}
