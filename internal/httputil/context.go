package httputil

import (
	"context"
	"net/http"

	"chathistory/internal/domain/services"
)

// Context key type to avoid collisions
type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal adds the authenticated principal to the request context
func WithPrincipal(r *http.Request, p services.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, p)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the authenticated principal from the context.
// The second return value is false when no principal is present.
func GetPrincipal(r *http.Request) (services.Principal, bool) {
	p, ok := r.Context().Value(principalKey).(services.Principal)
	return p, ok
}
