package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"candyshop/models"
	"candyshop/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Authenticator validates bearer tokens on protected routes and attaches
// the decoded identity to the request context.
type Authenticator struct {
	tokens *utils.TokenService
}

// NewAuthenticator creates an Authenticator backed by the given TokenService.
func NewAuthenticator(tokens *utils.TokenService) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Handler rejects requests without a valid Bearer token. Malformed and
// expired tokens get the same 401; callers learn nothing about why.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "No token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, err := a.tokens.Verify(parts[1])
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager ensures the authenticated identity holds the manager or
// admin role. An absent identity is treated as forbidden.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || (claims.Role != models.RoleManager && claims.Role != models.RoleAdmin) {
			writeJSONError(w, http.StatusForbidden, "Requires manager role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFrom extracts the authenticated identity from the request context.
func ClaimsFrom(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
