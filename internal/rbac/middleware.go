package rbac

import (
	"log"
	"net/http"
)

var defaultChecker = NewChecker(nil)

// Default returns the checker for the built-in policy.
func Default() *Checker { return defaultChecker }

// Require enforces a single permission with the default policy.
func Require(perm string) func(http.Handler) http.Handler {
	return defaultChecker.Require(perm)
}

// Require rejects requests whose role lacks perm with 403.
func (c *Checker) Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !c.Has(role, perm) {
				log.Printf("rbac: role %q denied %s on %s %s", role, perm, r.Method, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
