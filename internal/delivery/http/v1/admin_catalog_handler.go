package v1

import (
	"net/http"
	"strconv"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

type AdminCatalogHandler struct {
	adminUC *usecase.AdminUsecase
}

func NewAdminCatalogHandler(uc *usecase.AdminUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{adminUC: uc}
}

// ListProducts: ?page=&sort=&order=
func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	key, err := domain.ParseSortKey(qs.Get("sort"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dir, err := domain.ParseSortDirection(qs.Get("order"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	page, err := h.adminUC.ListProducts(r.Context(), utils.ParseInt(qs.Get("page"), 1), key, dir)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePaged(w, page)
}

func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.adminUC.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, p, nil)
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.adminUC.CreateProduct(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, p, nil)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req domain.ProductInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.adminUC.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, p, nil)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.adminUC.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writePaged sends the items as data and the paging fields as meta.
func writePaged[T any](w http.ResponseWriter, p *usecase.Paged[T]) {
	utils.WriteData(w, http.StatusOK, p.Items, map[string]int{
		"total":      p.Total,
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": p.TotalPages,
	})
}
