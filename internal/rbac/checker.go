package rbac

import (
	"context"
	"strings"
)

// Checker answers permission questions for a fixed policy. Inherited grants
// are flattened once at construction.
type Checker struct {
	grants map[string][]string
}

// NewChecker builds a checker for rp; nil selects RolePermissions with the
// default Inherits ladder.
func NewChecker(rp map[string][]string) *Checker {
	inherits := map[string][]string{}
	if rp == nil {
		rp = RolePermissions
		inherits = Inherits
	}
	c := &Checker{grants: make(map[string][]string, len(rp))}
	for role := range rp {
		c.grants[role] = flatten(role, rp, inherits, map[string]bool{})
	}
	return c
}

func flatten(role string, rp, inherits map[string][]string, seen map[string]bool) []string {
	if seen[role] {
		return nil
	}
	seen[role] = true
	out := append([]string(nil), rp[role]...)
	for _, parent := range inherits[role] {
		out = append(out, flatten(parent, rp, inherits, seen)...)
	}
	return out
}

// Known reports whether role exists in the policy.
func (c *Checker) Known(role string) bool {
	_, ok := c.grants[role]
	return ok
}

func (c *Checker) Has(role, perm string) bool {
	for _, p := range c.grants[role] {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

// Permissions expands role's grants against AllPermissions.
func (c *Checker) Permissions(role string) []string {
	var out []string
	for _, p := range AllPermissions {
		if c.Has(role, p) {
			out = append(out, p)
		}
	}
	return out
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

type ctxKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}
