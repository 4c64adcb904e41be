package httpx

import (
	"context"
	"net/http"
	"strings"

	"bookrec/internal/logging"
	"bookrec/internal/platform/crypto"
)

// RevocationChecker reports whether an access token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func AuthMiddleware(secret string, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					logging.Ctx(r.Context()).Error().Err(err).Msg("revocation lookup failed")
				}
				if err != nil || revoked {
					JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
					return
				}
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Username, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
