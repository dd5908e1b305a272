package middleware

import (
	"net/http"
	"strings"

	"chathistory/internal/auth"
	"chathistory/internal/domain/services"
	"chathistory/internal/httputil"
)

// AuthMiddleware verifies the bearer token on every /api request and stores
// the resulting principal in the request context. Health checks pass
// through unauthenticated.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			principal := services.Principal{
				Email: claims.Email,
				Name:  claims.DisplayName(),
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}
