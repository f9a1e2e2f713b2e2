package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffhub/internal/domain/auth"
)

type fakeSessions struct {
	valid bool
}

func (f fakeSessions) SessionValid(ctx context.Context, userID, tokenHash string) (bool, error) {
	return f.valid, nil
}

func makeToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{
		UserID:    "u1",
		CompanyID: "c1",
		Role:      auth.RoleHR,
		SessionID: "s1",
	}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthSetsUserFromBearer(t *testing.T) {
	secret := "test-secret"
	handler := Auth(secret, "session", fakeSessions{valid: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.CompanyID != "c1" || user.Role != auth.RoleHR {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, secret))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthSetsUserFromCookie(t *testing.T) {
	secret := "test-secret"
	handler := Auth(secret, "session", fakeSessions{valid: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			t.Fatal("expected user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: makeToken(t, secret)})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthRevokedSessionIgnored(t *testing.T) {
	secret := "test-secret"
	handler := Auth(secret, "session", fakeSessions{valid: false})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("revoked session must not authenticate")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, secret))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMissingToken(t *testing.T) {
	handler := Auth("secret", "session", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestAuthBadToken(t *testing.T) {
	handler := Auth("secret", "session", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
