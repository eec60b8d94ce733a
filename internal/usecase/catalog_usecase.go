package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-catalog/config"
	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/cache"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

const (
	cacheKeyCategories  = "category:list"
	cacheKeyFullCatalog = "catalog:all"
)

type CatalogUsecase struct {
	source domain.CatalogSource
	cache  cache.CacheService
	cfg    *config.Config
}

func NewCatalogUsecase(source domain.CatalogSource, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		source: source,
		cache:  cache,
		cfg:    cfg,
	}
}

// EngineOptions derives per-session engine settings from config.
func (uc *CatalogUsecase) EngineOptions() EngineOptions {
	return EngineOptions{
		PageSize:       uc.cfg.PageSize,
		SearchDebounce: uc.cfg.SearchDebounce,
		CategoryTTL:    uc.cfg.CacheCategoryTTL,
		CatalogTTL:     uc.cfg.CacheCatalogTTL,
		RequestTimeout: uc.cfg.CatalogHTTPTimeout,
	}
}

// NewEngine creates a query engine sharing this usecase's remote source and caches.
func (uc *CatalogUsecase) NewEngine() *CatalogEngine {
	return NewCatalogEngine(uc.source, uc.cache, uc.EngineOptions())
}

func (uc *CatalogUsecase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return loadCategories(ctx, uc.source, uc.cache, uc.cfg.CacheCategoryTTL)
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	key := productCacheKey(id)
	if val, found := uc.cache.Get(key); found {
		return val.(*domain.Product), nil
	}

	product, err := uc.source.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, product, uc.cfg.CacheProductTTL)
	return product, nil
}

// Query resolves one QueryState without keeping session state.
// Search is applied immediately; there is nothing to debounce.
func (uc *CatalogUsecase) Query(ctx context.Context, q domain.QueryState) (domain.CatalogView, error) {
	engine := uc.NewEngine()
	defer engine.Close()

	if err := engine.load(ctx, q); err != nil {
		return domain.CatalogView{}, err
	}
	_, err := engine.Reconcile(ctx)
	return engine.View(), err
}

// WarmCatalog preloads categories and the full product set used by local fallbacks.
func (uc *CatalogUsecase) WarmCatalog(ctx context.Context) error {
	if _, err := uc.GetCategories(ctx); err != nil {
		return fmt.Errorf("failed to warm categories: %w", err)
	}
	if _, ok := loadFullCatalog(ctx, uc.source, uc.cache, uc.cfg.CacheCatalogTTL, true); !ok {
		return fmt.Errorf("failed to warm product catalog")
	}
	return nil
}

// --- shared cache loaders ---

func loadCategories(ctx context.Context, source domain.CatalogSource, c cache.CacheService, ttl time.Duration) ([]domain.Category, error) {
	if val, found := c.Get(cacheKeyCategories); found {
		return val.([]domain.Category), nil
	}

	cats, err := source.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(cacheKeyCategories, cats, ttl)
	return cats, nil
}

// loadFullCatalog returns the last full unfiltered product set. With fetch
// false only the cache is consulted.
func loadFullCatalog(ctx context.Context, source domain.CatalogSource, c cache.CacheService, ttl time.Duration, fetch bool) ([]domain.Product, bool) {
	if val, found := c.Get(cacheKeyFullCatalog); found {
		return val.([]domain.Product), true
	}
	if !fetch {
		return nil, false
	}

	list, err := source.ListProducts(ctx, 0, 0)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Failed to load full catalog")
		return nil, false
	}
	c.Set(cacheKeyFullCatalog, list.Products, ttl)
	return list.Products, true
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product:id:%d", id)
}

// matchCategory finds the known category whose name or slug normalizes to input.
func matchCategory(cats []domain.Category, input string) (domain.Category, bool) {
	target := utils.Slugify(input)
	for _, c := range cats {
		if utils.Slugify(c.Slug) == target || utils.Slugify(c.Name) == target {
			return c, true
		}
	}
	return domain.Category{}, false
}

func isAllCategories(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, domain.AllCategories)
}
