package middleware

import (
	"net/http"

	"staffhub/internal/domain/auth"
	"staffhub/internal/transport/http/api"
)

// RequireRole gates a route behind a minimum role in the ordered hierarchy
// user < manager < hr < admin.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if user.CompanyID == "" {
				api.Fail(w, http.StatusForbidden, "forbidden", "no company associated with user", GetRequestID(r.Context()))
				return
			}
			if !auth.AtLeast(user.Role, minimum) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
