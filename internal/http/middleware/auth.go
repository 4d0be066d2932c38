package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/kasir/internal/auth"
	"github.com/rogerio-castellano/kasir/internal/i18n"
)

func ClaimsFromContext(ctx context.Context) (*auth.TokenClaims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*auth.TokenClaims)
	return c, ok
}

// Authenticate rejects requests without a valid bearer token and stores its
// claims in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, r)
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			currentLogger().Debug().Err(err).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("rejected token")
			unauthorized(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets through authenticated users holding one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				unauthorized(w, r)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, i18n.T(i18n.FromHeader(r.Header.Get("Accept-Language")), i18n.Forbidden), http.StatusForbidden)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="kasir"`)
	http.Error(w, i18n.T(i18n.FromHeader(r.Header.Get("Accept-Language")), i18n.Unauthorized), http.StatusUnauthorized)
}
