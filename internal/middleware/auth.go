package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserKey   contextKey = "user_id"
	APIKeyKey contextKey = "api_key"
)

// APIKeyAuth resolves the caller's user id from the Authorization header.
// With no keys configured every request acts as defaultUser.
func APIKeyAuth(validKeys map[string]int64, defaultUser int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(validKeys) == 0 {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), defaultUser)))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			// constant-time comparison
			var (
				userID int64
				valid  bool
			)
			for key, uid := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					userID, valid = uid, true
					break
				}
			}
			if !valid {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			ctx := WithUser(r.Context(), userID)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser stores the authenticated user id in ctx.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserKey, userID)
}

// GetUserFromContext extracts the user id set by APIKeyAuth.
func GetUserFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserKey).(int64)
	return id, ok
}
