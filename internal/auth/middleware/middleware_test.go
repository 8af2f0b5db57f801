package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quizsheets/internal/rbac"
)

func TestLoginAndBearer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAuthService("test-key")
	login := LoginHandler(svc, Account{Username: "admin", PassHash: string(hash), Role: "admin"})

	rec := httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"s3cret"}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "access_token") {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	tok, _ := svc.IssueJWT("ops", "operator")
	var gotRole, gotSub string
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSub = SubjectFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotRole != "operator" || gotSub != "ops" {
		t.Fatalf("bearer: code=%d role=%q sub=%q", rec.Code, gotRole, gotSub)
	}

	other, _ := NewAuthService("other-key").IssueJWT("ops", "admin")
	req.Header.Set("Authorization", "Bearer "+other)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token accepted: %d", rec.Code)
	}
}
