package api

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator resolves a bearer token to a user ID.
type Authenticator interface {
	UserFor(token string) (userID string, ok bool)
}

// StaticTokens is a fixed token-to-user mapping loaded from config.
type StaticTokens map[string]string

func (s StaticTokens) UserFor(token string) (string, bool) {
	userID, ok := s[token]
	return userID, ok
}

type contextKey string

const userIDKey contextKey = "userID"

// userID returns the authenticated user from the request context.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// requireAuth rejects requests without a valid bearer token and stores
// the resolved user ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, ok := s.auth.UserFor(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
