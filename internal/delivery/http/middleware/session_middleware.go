package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

type sessionContextKey struct{}

// NewSessionMiddleware resolves the caller's session from the Bearer token or
// session cookie and stores it in the request context.
func NewSessionMiddleware(sessions *usecase.SessionUsecase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := utils.ExtractToken(r)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No session token provided")
				return
			}

			session, err := sessions.Resolve(r.Context(), token)
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				utils.WriteError(w, http.StatusNotFound, "Session not found or expired")
				return
			case err != nil:
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid session token")
				return
			}

			setRequestSessionID(r.Context(), session.ID)
			reqLogger := logger.WithSessionID(*logger.WithContext(r.Context()), session.ID)
			ctx := logger.NewContext(r.Context(), &reqLogger)
			ctx = context.WithValue(ctx, sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by the session middleware.
func SessionFromContext(ctx context.Context) (*usecase.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*usecase.Session)
	return s, ok && s != nil
}
