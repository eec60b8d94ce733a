package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/cache"
	"storefront-catalog/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// DashboardStats are the store-wide totals shown on the admin dashboard.
type DashboardStats struct {
	Products int `json:"products"`
	Carts    int `json:"carts"`
	Users    int `json:"users"`
}

// Paged is one page of an admin listing.
type Paged[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newPaged[T any](items []T, total, page, limit int) *Paged[T] {
	if items == nil {
		items = []T{}
	}
	return &Paged[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// AdminUsecase backs the management dashboard. Product writes go to the
// remote store and drop the cached copies the storefront reads.
type AdminUsecase struct {
	catalog  domain.CatalogSource
	admin    domain.AdminSource
	cache    cache.CacheService
	pageSize int
}

func NewAdminUsecase(catalog domain.CatalogSource, admin domain.AdminSource, cache cache.CacheService, pageSize int) *AdminUsecase {
	if pageSize < 1 {
		pageSize = 10
	}
	return &AdminUsecase{
		catalog:  catalog,
		admin:    admin,
		cache:    cache,
		pageSize: pageSize,
	}
}

// Stats reads the three totals concurrently; any failure fails the whole call.
func (uc *AdminUsecase) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := uc.catalog.ListProducts(gctx, 1, 0)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		stats.Products = list.Total
		return nil
	})
	g.Go(func() error {
		list, err := uc.admin.ListCarts(gctx, 1, 0)
		if err != nil {
			return fmt.Errorf("count carts: %w", err)
		}
		stats.Carts = list.Total
		return nil
	})
	g.Go(func() error {
		list, err := uc.admin.ListUsers(gctx, 1, 0)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		stats.Users = list.Total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListProducts reads one remote page and orders it by key. Sorting only
// reorders the page; it does not reorder the catalog across pages.
func (uc *AdminUsecase) ListProducts(ctx context.Context, page int, key domain.SortKey, dir domain.SortDirection) (*Paged[domain.Product], error) {
	page = max(page, 1)
	list, err := uc.catalog.ListProducts(ctx, uc.pageSize, (page-1)*uc.pageSize)
	if err != nil {
		return nil, err
	}
	return newPaged(SortProducts(list.Products, key, dir), list.Total, page, uc.pageSize), nil
}

// GetProduct reads the remote product directly, bypassing the storefront cache.
func (uc *AdminUsecase) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return uc.catalog.GetProduct(ctx, id)
}

func (uc *AdminUsecase) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := uc.admin.AddProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.invalidateProduct(ctx, p.ID)
	return p, nil
}

func (uc *AdminUsecase) UpdateProduct(ctx context.Context, id int, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := uc.admin.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	uc.invalidateProduct(ctx, id)
	return p, nil
}

func (uc *AdminUsecase) DeleteProduct(ctx context.Context, id int) error {
	if err := uc.admin.DeleteProduct(ctx, id); err != nil {
		return err
	}
	uc.invalidateProduct(ctx, id)
	return nil
}

// ListCarts pages through every remote cart, or lists one user's carts
// unpaged when userID is set.
func (uc *AdminUsecase) ListCarts(ctx context.Context, page, userID int) (*Paged[domain.UserCart], error) {
	if userID > 0 {
		list, err := uc.admin.CartsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return newPaged(list.Carts, list.Total, 1, max(len(list.Carts), 1)), nil
	}

	page = max(page, 1)
	list, err := uc.admin.ListCarts(ctx, uc.pageSize, (page-1)*uc.pageSize)
	if err != nil {
		return nil, err
	}
	return newPaged(list.Carts, list.Total, page, uc.pageSize), nil
}

func (uc *AdminUsecase) GetCart(ctx context.Context, id int) (*domain.UserCart, error) {
	return uc.admin.GetCart(ctx, id)
}

func (uc *AdminUsecase) DeleteCart(ctx context.Context, id int) error {
	if err := uc.admin.DeleteCart(ctx, id); err != nil {
		return err
	}
	logger.WithContext(ctx).Info().Int("cart_id", id).Msg("Remote cart deleted")
	return nil
}

// ListUsers pages through every user, or returns all matches of query unpaged.
func (uc *AdminUsecase) ListUsers(ctx context.Context, page int, query string) (*Paged[domain.User], error) {
	if query = strings.TrimSpace(query); query != "" {
		list, err := uc.admin.SearchUsers(ctx, query)
		if err != nil {
			return nil, err
		}
		return newPaged(list.Users, list.Total, 1, max(len(list.Users), 1)), nil
	}

	page = max(page, 1)
	list, err := uc.admin.ListUsers(ctx, uc.pageSize, (page-1)*uc.pageSize)
	if err != nil {
		return nil, err
	}
	return newPaged(list.Users, list.Total, page, uc.pageSize), nil
}

func (uc *AdminUsecase) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return uc.admin.GetUser(ctx, id)
}

// invalidateProduct drops the product's detail entry and the full set used
// by local fallbacks. Sessions pick the change up on their next reconcile.
func (uc *AdminUsecase) invalidateProduct(ctx context.Context, id int) {
	uc.cache.Delete(productCacheKey(id))
	uc.cache.Delete(cacheKeyFullCatalog)
	logger.WithContext(ctx).Info().Int("product_id", id).Msg("Product changed, catalog cache invalidated")
}
