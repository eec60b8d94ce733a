package v1

import (
	"net/http"
	"strconv"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
	pageSize  int
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, pageSize int) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc, pageSize: pageSize}
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalogUC.GetCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, cats, map[string]int{"total": len(cats)})
}

// ListProducts answers one query: ?q=&category=&sort=&order=&page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	view, err := h.catalogUC.Query(r.Context(), q)
	if err != nil && len(view.Items) == 0 {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, view.Items, viewMeta(view))
}

func (h *CatalogHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Product ID must be a positive integer")
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, product, nil)
}

func (h *CatalogHandler) parseQuery(r *http.Request) (domain.QueryState, error) {
	query := r.URL.Query()
	q := domain.NewQueryState(h.pageSize)

	key, err := domain.ParseSortKey(query.Get("sort"))
	if err != nil {
		return q, err
	}
	dir, err := domain.ParseSortDirection(query.Get("order"))
	if err != nil {
		return q, err
	}

	q.SearchTerm = query.Get("q")
	if c := query.Get("category"); c != "" {
		q.Category = c
	}
	q.SortKey = key
	q.SortDirection = dir
	q.Page = utils.ParseInt(query.Get("page"), 1)
	return q, nil
}

// viewMeta carries everything in a view except the items.
func viewMeta(v domain.CatalogView) map[string]interface{} {
	return map[string]interface{}{
		"query":          v.Query,
		"total":          v.Total,
		"strategy":       v.Strategy,
		"fallback":       v.Fallback,
		"loading":        v.Loading,
		"error":          v.Error,
		"totalPages":     v.TotalPages,
		"pageWindow":     v.PageWindow,
		"showPagination": v.ShowPagination,
		"version":        v.Version,
	}
}
