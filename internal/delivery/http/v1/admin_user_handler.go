package v1

import (
	"net/http"
	"strconv"

	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

type AdminUserHandler struct {
	adminUC *usecase.AdminUsecase
}

func NewAdminUserHandler(uc *usecase.AdminUsecase) *AdminUserHandler {
	return &AdminUserHandler{adminUC: uc}
}

// ListUsers: ?page= or ?q= (search, unpaged)
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	page, err := h.adminUC.ListUsers(r.Context(), utils.ParseInt(qs.Get("page"), 1), qs.Get("q"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePaged(w, page)
}

func (h *AdminUserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.adminUC.GetUser(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, user, nil)
}
