package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-inventory-api.git/internal/auth"
)

type ctxKeyClaims struct{}

// RequireAuth validates the bearer token, checks it has not been revoked, and
// injects the claims into the request context.
func RequireAuth(tokens *auth.Tokens, rev auth.Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, prefix) {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := tokens.Validate(strings.TrimPrefix(h, prefix))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if revoked, err := rev.IsRevoked(r.Context(), claims.ID); err == nil && revoked {
				writeError(w, http.StatusUnauthorized, "token revoked")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID is the authenticated user of the request, "" when unauthenticated.
func UserID(ctx context.Context) string {
	if c, ok := ctx.Value(ctxKeyClaims{}).(*auth.Claims); ok {
		return c.UserID
	}
	return ""
}

// TokenID is the jti of the presented token, used by logout.
func TokenID(ctx context.Context) string {
	if c, ok := ctx.Value(ctxKeyClaims{}).(*auth.Claims); ok {
		return c.ID
	}
	return ""
}
