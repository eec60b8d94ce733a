package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/cache"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

const (
	msgLoadFailed     = "Failed to load products"
	msgServingCached  = "Catalog service unavailable, showing cached results"
	defaultReqTimeout = 10 * time.Second
)

type EngineOptions struct {
	PageSize       int
	SearchDebounce time.Duration
	CategoryTTL    time.Duration
	CatalogTTL     time.Duration
	// RequestTimeout bounds reconciles started by the search debouncer.
	RequestTimeout time.Duration
}

// CatalogEngine owns one session's QueryState and the last applied result.
//
// Every state change goes through Reconcile, which picks a retrieval strategy,
// falls back to local filtering when the remote answer is unusable, sorts
// client-side and replaces the view. Reconciles are tagged with a sequence
// number; a result is applied only if no newer reconcile started meanwhile.
type CatalogEngine struct {
	source   domain.CatalogSource
	cache    cache.CacheService
	opts     EngineOptions
	debounce *Debouncer

	baseCtx context.Context
	cancel  context.CancelFunc

	mu            sync.Mutex
	state         domain.QueryState
	view          domain.CatalogView
	seq           uint64
	pendingSearch *string
	subs          map[int]chan domain.CatalogView
	nextSub       int
	changed       chan struct{}
	closed        bool
}

func NewCatalogEngine(source domain.CatalogSource, c cache.CacheService, opts EngineOptions) *CatalogEngine {
	if opts.PageSize < 1 {
		opts.PageSize = domain.DefaultPageSize
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultReqTimeout
	}

	e := &CatalogEngine{
		source:   source,
		cache:    c,
		opts:     opts,
		debounce: NewDebouncer(opts.SearchDebounce),
		state:    domain.NewQueryState(opts.PageSize),
		subs:     make(map[int]chan domain.CatalogView),
		changed:  make(chan struct{}),
	}
	e.baseCtx, e.cancel = context.WithCancel(context.Background())
	e.view = e.buildView(e.state, domain.ResultPage{Items: []domain.Product{}, Strategy: domain.StrategyPaged}, "")
	return e
}

// State returns a copy of the current query state.
func (e *CatalogEngine) State() domain.QueryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// View returns the current read-only snapshot.
func (e *CatalogEngine) View() domain.CatalogView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// SetSearch schedules a search after the quiet period. It reports false when
// the term equals the applied search and nothing was scheduled.
func (e *CatalogEngine) SetSearch(term string) bool {
	term = strings.TrimSpace(term)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	if term == e.state.SearchTerm {
		// Typing back to the applied term drops whatever was pending.
		e.pendingSearch = nil
		e.mu.Unlock()
		e.debounce.Cancel()
		return false
	}
	if e.pendingSearch != nil && *e.pendingSearch == term {
		e.mu.Unlock()
		return true
	}
	e.pendingSearch = &term
	e.mu.Unlock()

	e.debounce.Trigger(e.applyPendingSearch)
	return true
}

func (e *CatalogEngine) applyPendingSearch() {
	e.mu.Lock()
	if e.pendingSearch == nil || e.closed {
		e.mu.Unlock()
		return
	}
	term := *e.pendingSearch
	e.pendingSearch = nil
	e.mutateLocked(func(q *domain.QueryState) {
		q.SearchTerm = term
		q.Page = 1
	})
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(e.baseCtx, e.opts.RequestTimeout)
	defer cancel()
	if _, err := e.Reconcile(ctx); err != nil {
		logger.Debug().Err(err).Msg("Debounced search reconcile failed")
	}
}

// SetCategory switches the category filter and reconciles immediately.
// category must be "All" or one of the remote categories (by name or slug).
func (e *CatalogEngine) SetCategory(ctx context.Context, category string) (domain.CatalogView, error) {
	resolved, err := e.resolveCategory(ctx, category)
	if err != nil {
		return e.View(), err
	}

	e.mutate(func(q *domain.QueryState) {
		q.Category = resolved
		q.Page = 1
	})

	_, err = e.Reconcile(ctx)
	return e.View(), err
}

func (e *CatalogEngine) SetSort(ctx context.Context, key domain.SortKey, dir domain.SortDirection) (domain.CatalogView, error) {
	if dir != domain.SortDesc {
		dir = domain.SortAsc
	}
	if key == "" {
		key = domain.SortNone
	}

	e.mutate(func(q *domain.QueryState) {
		q.SortKey = key
		q.SortDirection = dir
	})

	_, err := e.Reconcile(ctx)
	return e.View(), err
}

// SetPage moves to page, clamped to the pages known from the last result.
func (e *CatalogEngine) SetPage(ctx context.Context, page int) (domain.CatalogView, error) {
	e.mu.Lock()
	totalPages := e.view.TotalPages
	e.mutateLocked(func(q *domain.QueryState) {
		q.Page = ClampPage(page, totalPages)
	})
	e.mu.Unlock()

	_, err := e.Reconcile(ctx)
	return e.View(), err
}

// Warm loads the full product set used by the local fallbacks.
func (e *CatalogEngine) Warm(ctx context.Context) bool {
	_, ok := loadFullCatalog(ctx, e.source, e.cache, e.opts.CatalogTTL, true)
	return ok
}

// Reconcile evaluates the current QueryState and replaces the view with the
// result. The returned error is the retrieval failure, if any, even when a
// local fallback produced items.
func (e *CatalogEngine) Reconcile(ctx context.Context) (domain.ResultPage, error) {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	q := e.state
	e.view.Loading = true
	e.view.Error = ""
	e.publishLocked()
	e.mu.Unlock()

	page, resolvedPage, err := e.resolve(ctx, q)
	q.Page = resolvedPage

	errMsg := ""
	if err != nil {
		errMsg = msgLoadFailed
		if page.Fallback {
			errMsg = msgServingCached
		}
		logger.WithContext(ctx).Warn().Err(err).
			Str("strategy", string(q.Strategy())).
			Bool("fallback", page.Fallback).
			Msg("Catalog retrieval failed")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq || e.closed {
		logger.WithContext(ctx).Debug().Uint64("seq", seq).Msg("Discarding stale catalog result")
		return page, err
	}
	e.state.Page = q.Page
	e.view = e.buildView(e.state, page, errMsg)
	e.publishLocked()
	return page, err
}

// resolve runs one retrieval strategy and returns the result and the page it
// actually represents.
func (e *CatalogEngine) resolve(ctx context.Context, q domain.QueryState) (domain.ResultPage, int, error) {
	var (
		page domain.ResultPage
		err  error
	)
	switch q.Strategy() {
	case domain.StrategySearch:
		page, err = e.resolveSearch(ctx, q)
	case domain.StrategyCategory:
		page, err = e.resolveCategoryPage(ctx, q)
	default:
		page, q.Page, err = e.resolvePaged(ctx, q)
	}
	page.Items = SortProducts(page.Items, q.SortKey, q.SortDirection)
	return page, q.Page, err
}

func (e *CatalogEngine) resolveSearch(ctx context.Context, q domain.QueryState) (domain.ResultPage, error) {
	term := strings.TrimSpace(q.SearchTerm)
	page := domain.ResultPage{Strategy: domain.StrategySearch}

	var items []domain.Product
	list, err := e.source.SearchProducts(ctx, term)
	if err != nil {
		full, ok := loadFullCatalog(ctx, e.source, e.cache, e.opts.CatalogTTL, false)
		if !ok {
			page.Items = []domain.Product{}
			return page, err
		}
		items = SearchLocal(full, term)
		page.Fallback = true
	} else {
		items = list.Products
	}

	// The remote search total no longer applies once intersected with a category.
	if q.CategoryActive() {
		items = FilterByCategory(items, q.Category)
	}
	page.Items = items
	page.Total = len(items)
	return page, err
}

func (e *CatalogEngine) resolveCategoryPage(ctx context.Context, q domain.QueryState) (domain.ResultPage, error) {
	page := domain.ResultPage{Strategy: domain.StrategyCategory}

	list, err := e.source.ProductsByCategory(ctx, e.categorySlug(q.Category))
	if err == nil && len(list.Products) > 0 {
		page.Items = list.Products
		page.Total = len(list.Products)
		return page, nil
	}

	// An empty answer is not an error, so the full set may still be fetched for it.
	full, ok := loadFullCatalog(ctx, e.source, e.cache, e.opts.CatalogTTL, err == nil)
	if !ok {
		page.Items = []domain.Product{}
		return page, err
	}
	page.Items = FilterByCategory(full, q.Category)
	page.Total = len(page.Items)
	page.Fallback = true
	return page, err
}

func (e *CatalogEngine) resolvePaged(ctx context.Context, q domain.QueryState) (domain.ResultPage, int, error) {
	page := domain.ResultPage{Strategy: domain.StrategyPaged}
	pageNum := ClampPage(q.Page, 0)

	q.Page = pageNum

	list, err := e.source.ListProducts(ctx, q.PageSize, q.Skip())
	if err == nil && len(list.Products) == 0 && list.Total > 0 {
		// Past the last page: clamp and fetch once more.
		if last := TotalPages(list.Total, q.PageSize); pageNum > last {
			pageNum = last
			q.Page = last
			list, err = e.source.ListProducts(ctx, q.PageSize, q.Skip())
		}
	}

	if err != nil {
		full, ok := loadFullCatalog(ctx, e.source, e.cache, e.opts.CatalogTTL, false)
		if !ok {
			page.Items = []domain.Product{}
			return page, pageNum, err
		}
		pageNum = ClampPage(pageNum, TotalPages(len(full), q.PageSize))
		page.Items = Paginate(full, pageNum, q.PageSize)
		page.Total = len(full)
		page.Fallback = true
		return page, pageNum, err
	}

	if pageNum == 1 && list.Total > 0 && len(list.Products) >= list.Total {
		// The first page held everything; remember it for the fallbacks.
		e.cache.Set(cacheKeyFullCatalog, list.Products, e.opts.CatalogTTL)
	}

	page.Items = list.Products
	if len(page.Items) > q.PageSize {
		page.Items = page.Items[:q.PageSize]
	}
	page.Total = list.Total
	return page, pageNum, nil
}

func (e *CatalogEngine) resolveCategory(ctx context.Context, input string) (string, error) {
	if isAllCategories(input) {
		return domain.AllCategories, nil
	}
	input = strings.TrimSpace(input)

	cats, err := loadCategories(ctx, e.source, e.cache, e.opts.CategoryTTL)
	if err != nil {
		// The list is unavailable; accept the input rather than block filtering.
		logger.WithContext(ctx).Warn().Err(err).Str("category", input).Msg("Category list unavailable")
		return input, nil
	}
	if c, ok := matchCategory(cats, input); ok {
		return c.Name, nil
	}
	return "", domain.ErrUnknownCategory
}

// categorySlug derives the URL-safe slug for a by-category request,
// independently of the display name kept in the state.
func (e *CatalogEngine) categorySlug(category string) string {
	if val, found := e.cache.Get(cacheKeyCategories); found {
		if c, ok := matchCategory(val.([]domain.Category), category); ok && c.Slug != "" {
			return utils.Slugify(c.Slug)
		}
	}
	return utils.Slugify(category)
}

// load replaces the whole state at once, validating category and paging.
func (e *CatalogEngine) load(ctx context.Context, q domain.QueryState) error {
	category, err := e.resolveCategory(ctx, q.Category)
	if err != nil {
		return err
	}
	if q.SortKey == "" {
		q.SortKey = domain.SortNone
	}
	if q.SortDirection != domain.SortDesc {
		q.SortDirection = domain.SortAsc
	}

	e.mutate(func(s *domain.QueryState) {
		s.SearchTerm = strings.TrimSpace(q.SearchTerm)
		s.Category = category
		s.SortKey = q.SortKey
		s.SortDirection = q.SortDirection
		s.Page = ClampPage(q.Page, 0)
	})
	return nil
}

// mutate changes the query state and invalidates every reconcile already in
// flight, so none of them can apply a result for the old state.
func (e *CatalogEngine) mutate(fn func(q *domain.QueryState)) {
	e.mu.Lock()
	e.mutateLocked(fn)
	e.mu.Unlock()
}

func (e *CatalogEngine) mutateLocked(fn func(q *domain.QueryState)) {
	fn(&e.state)
	e.seq++
}

func (e *CatalogEngine) buildView(q domain.QueryState, page domain.ResultPage, errMsg string) domain.CatalogView {
	v := domain.CatalogView{
		Query:      q,
		Items:      page.Items,
		Total:      page.Total,
		Strategy:   page.Strategy,
		Fallback:   page.Fallback,
		Error:      errMsg,
		PageWindow: []int{},
		Version:    e.view.Version,
	}
	if v.Items == nil {
		v.Items = []domain.Product{}
	}
	// Search and category results are complete sets with no page cursor.
	if page.Strategy == domain.StrategyPaged {
		v.TotalPages = TotalPages(page.Total, q.PageSize)
		v.PageWindow = PageWindow(q.Page, v.TotalPages)
		v.ShowPagination = v.TotalPages > 1
	}
	return v
}

// --- subscriptions ---

// Subscribe delivers the current view and every later change. A slow reader
// only sees the latest view. cancel must be called to release the channel.
func (e *CatalogEngine) Subscribe() (<-chan domain.CatalogView, func()) {
	ch := make(chan domain.CatalogView, 1)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	ch <- e.view
	if e.closed {
		close(ch)
		e.mu.Unlock()
		return ch, func() {}
	}
	e.subs[id] = ch
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		})
	}
}

// WaitForVersion blocks until the view version exceeds since or ctx ends,
// and returns the view either way.
func (e *CatalogEngine) WaitForVersion(ctx context.Context, since uint64) (domain.CatalogView, error) {
	for {
		e.mu.Lock()
		if e.view.Version > since || e.closed {
			v := e.view
			e.mu.Unlock()
			return v, nil
		}
		changed := e.changed
		e.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return e.View(), ctx.Err()
		}
	}
}

// publishLocked bumps the version and fans the view out. Caller holds e.mu.
func (e *CatalogEngine) publishLocked() {
	if e.closed {
		return
	}
	e.view.Version++
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		ch <- e.view
	}
	close(e.changed)
	e.changed = make(chan struct{})
}

// Close cancels pending searches and in-flight debounced reconciles and ends
// all subscriptions.
func (e *CatalogEngine) Close() {
	e.debounce.Cancel()
	e.cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.pendingSearch = nil
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
	close(e.changed)
}
