package middleware

import (
	"net/http"
	"strings"

	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"
)

// NewAdminMiddleware admits sessions signed in with one of roles. An empty
// roles list admits any signed-in session.
// MUST be used AFTER the session middleware.
func NewAdminMiddleware(roles []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			allowed[r] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No session found in context")
				return
			}
			user := s.User()
			if user == nil {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Sign in required")
				return
			}

			if len(allowed) > 0 {
				if _, ok := allowed[strings.ToLower(user.Role)]; !ok {
					logger.WithContext(r.Context()).Warn().Int("user_id", user.ID).Str("role", user.Role).Msg("Admin access denied")
					utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
