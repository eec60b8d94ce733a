package v1

import (
	"errors"
	"net/http"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		utils.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, domain.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCartNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNetwork):
		utils.WriteError(w, http.StatusBadGateway, "Catalog service unavailable")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Msg("Unhandled request error")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
