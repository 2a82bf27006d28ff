package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
)

// RBACAuthorization gates routes on the caller's single role.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole must run after AuthMiddleware.
func (ra *RBACAuthorization) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := UserFromContext(r.Context())
			if err := CheckRole(u, role); err != nil {
				if u != nil {
					ra.Logger.WarnContext(r.Context(), "access denied",
						"user_id", u.ID,
						"role", u.Role,
						"required_role", role)
				}
				ra.HandleServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
