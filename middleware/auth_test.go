package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"candyshop/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*Authenticator, *utils.TokenService) {
	t.Helper()
	ts := utils.NewTokenService("test-secret", time.Hour)
	return NewAuthenticator(ts), ts
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthMissingHeader(t *testing.T) {
	auth, _ := newAuth(t)
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	auth.Handler(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthMalformedHeader(t *testing.T) {
	auth, ts := newAuth(t)
	token, err := ts.Issue("abc", "user")
	require.NoError(t, err)

	for _, header := range []string{"Basic xyz", token, "Bearer"} {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		auth.Handler(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.False(t, *called)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	auth, _ := newAuth(t)
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	auth.Handler(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthAttachesClaims(t *testing.T) {
	auth, ts := newAuth(t)
	token, err := ts.Issue("user-42", "manager")
	require.NoError(t, err)

	var got *utils.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	auth.Handler(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-42", got.ID)
	assert.Equal(t, "manager", got.Role)
}

func TestRequireManager(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"user", http.StatusForbidden},
		{"manager", http.StatusOK},
		{"admin", http.StatusOK},
	}

	for _, tc := range cases {
		next, _ := okHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		claims := &utils.Claims{ID: "u1", Role: tc.role}
		req = req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
		w := httptest.NewRecorder()
		RequireManager(next).ServeHTTP(w, req)

		assert.Equal(t, tc.want, w.Code, "role %s", tc.role)
	}
}

func TestAuthErrorBodyShape(t *testing.T) {
	auth, _ := newAuth(t)
	next, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	auth.Handler(next).ServeHTTP(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
}

func TestRequireManagerNoIdentity(t *testing.T) {
	next, called := okHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	w := httptest.NewRecorder()
	RequireManager(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}
