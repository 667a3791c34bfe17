package middleware

import (
	"net/http"
	"slices"

	"storefront-admin/internal/domain"

	"go.uber.org/zap"
)

// RequireRole ensures the caller carries one of the allowed roles.
// Anonymous callers get 401, callers with another role get 403.
func RequireRole(logger *zap.Logger, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.Contains(allowed, identity.Role) {
				logger.Warn("User role not authorized",
					zap.String("user_id", identity.UserID),
					zap.String("role", string(identity.Role)),
					zap.Any("allowed_roles", allowed),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
