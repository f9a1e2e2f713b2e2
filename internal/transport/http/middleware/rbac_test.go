package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffhub/internal/domain/auth"
)

func requestWithUser(user auth.UserContext) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ctxKeyUser, user)
	return req.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(auth.RoleUser)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleMissingCompany(t *testing.T) {
	rec := httptest.NewRecorder()
	req := requestWithUser(auth.UserContext{UserID: "u1", Role: auth.RoleAdmin})
	RequireRole(auth.RoleUser)(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleInsufficient(t *testing.T) {
	rec := httptest.NewRecorder()
	req := requestWithUser(auth.UserContext{UserID: "u1", CompanyID: "c1", Role: auth.RoleManager})
	RequireRole(auth.RoleHR)(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleHierarchy(t *testing.T) {
	cases := []struct {
		role    string
		minimum string
		want    int
	}{
		{auth.RoleAdmin, auth.RoleHR, http.StatusOK},
		{auth.RoleHR, auth.RoleHR, http.StatusOK},
		{auth.RoleHR, auth.RoleAdmin, http.StatusForbidden},
		{auth.RoleManager, auth.RoleUser, http.StatusOK},
		{auth.RoleUser, auth.RoleManager, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := requestWithUser(auth.UserContext{UserID: "u1", CompanyID: "c1", Role: tc.role})
		RequireRole(tc.minimum)(okHandler()).ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %s against %s: status = %d, want %d", tc.role, tc.minimum, rec.Code, tc.want)
		}
	}
}
