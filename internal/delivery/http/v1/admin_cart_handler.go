package v1

import (
	"net/http"
	"strconv"

	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

// AdminCartHandler manages carts held by the remote store, not session carts.
type AdminCartHandler struct {
	adminUC *usecase.AdminUsecase
}

func NewAdminCartHandler(uc *usecase.AdminUsecase) *AdminCartHandler {
	return &AdminCartHandler{adminUC: uc}
}

// ListCarts: ?page= or ?userId= (one user's carts, unpaged)
func (h *AdminCartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	userID := 0
	if raw := qs.Get("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			utils.WriteError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		userID = id
	}

	page, err := h.adminUC.ListCarts(r.Context(), utils.ParseInt(qs.Get("page"), 1), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePaged(w, page)
}

func (h *AdminCartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid cart ID")
		return
	}

	cart, err := h.adminUC.GetCart(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, cart, nil)
}

func (h *AdminCartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid cart ID")
		return
	}

	if err := h.adminUC.DeleteCart(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
