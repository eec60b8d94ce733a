package domain

import "context"

// OriginalPriceMarkup is applied to the selling price to derive the
// strike-through "original" price shown next to it.
const OriginalPriceMarkup = 1.2

type Product struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	OriginalPrice      float64  `json:"originalPrice"`
	Image              string   `json:"image"`
	Images             []string `json:"images"`
	Category           string   `json:"category"`
	Rating             float64  `json:"rating"`
	InStock            bool     `json:"inStock"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	DiscountPercentage float64  `json:"discountPercentage"`
}

// Normalize recomputes the derived fields.
// After it returns OriginalPrice >= Price and InStock == (Stock > 0).
func (p *Product) Normalize() {
	p.OriginalPrice = p.Price * OriginalPriceMarkup
	if p.OriginalPrice < p.Price {
		// only reachable with a negative price
		p.OriginalPrice = p.Price
	}
	p.InStock = p.Stock > 0
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

// Category is a display name plus the slug used for by-category requests.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductList is one page returned by the remote catalog.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// --- Interfaces ---

// CatalogSource is the remote product API the query engine reads from.
type CatalogSource interface {
	// ListProducts pages through the unfiltered catalog. limit 0 returns every product.
	ListProducts(ctx context.Context, limit, skip int) (*ProductList, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	ProductsByCategory(ctx context.Context, slug string) (*ProductList, error)
	SearchProducts(ctx context.Context, query string) (*ProductList, error)
	Categories(ctx context.Context) ([]Category, error)
}
