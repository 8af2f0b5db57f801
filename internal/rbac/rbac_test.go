package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"viewer", PermQuizView, true},
		{"viewer", PermImportRun, false},
		{"operator", PermImportRun, true},
		{"operator", PermQuizDelete, false},
		{"admin", PermQuizDelete, true},
		{"", PermQuizView, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v", tc.role, tc.perm, got)
		}
	}
}

func TestInheritedGrants(t *testing.T) {
	c := NewChecker(nil)
	got := c.Permissions(RoleOperator)
	want := []string{PermQuizView, PermImportRun, PermErrorsDelete}
	if len(got) != len(want) {
		t.Fatalf("operator permissions: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operator permissions: %v", got)
		}
	}
	if len(c.Permissions(RoleAdmin)) != len(AllPermissions) {
		t.Fatalf("admin permissions: %v", c.Permissions(RoleAdmin))
	}
	if c.Known("guest") || !c.Known(RoleViewer) {
		t.Fatal("Known misreports roles")
	}
}

func TestPrefixPattern(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"quiz:*"}})
	if !c.Has("auditor", PermQuizView) || c.Has("auditor", PermImportRun) {
		t.Fatal("prefix pattern misapplied")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Require(PermImportRun)(ok)
	for role, want := range map[string]int{"operator": 200, "viewer": 403, "": 403} {
		req := httptest.NewRequest(http.MethodPost, "/imports", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: got %d want %d", role, rec.Code, want)
		}
	}
}
