package v1

import (
	"net/http"

	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

type AdminStatsHandler struct {
	adminUC *usecase.AdminUsecase
}

func NewAdminStatsHandler(uc *usecase.AdminUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{adminUC: uc}
}

func (h *AdminStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUC.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteData(w, http.StatusOK, stats, nil)
}
