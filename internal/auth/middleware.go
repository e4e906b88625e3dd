package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxUserID ctxKey = "userID"

// UserID extracts the authenticated user from a request context.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxUserID).(uint)
	return id, ok
}

// Middleware validates the Bearer token and stores the user id in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
