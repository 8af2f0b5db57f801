// internal/api/http/me.go
package http

import (
	"net/http"

	auth "github.com/mind-engage/mindengage-quizsheets/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quizsheets/internal/rbac"
)

// GET /me
func MeHandler(c *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"sub":         auth.SubjectFromContext(r.Context()),
			"role":        role,
			"permissions": c.Permissions(role),
		})
	}
}
