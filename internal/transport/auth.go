package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/spacedesk/internal/domain/activity"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// OperatorResolver resolves an operator ID from a bearer token.
type OperatorResolver interface {
	ResolveOperator(ctx context.Context, token string) (string, error)
}

// publicPaths are served without credentials.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// AuthMiddleware enforces bearer token authentication and records the operator as
// the activity actor for the rest of the request.
func AuthMiddleware(resolver OperatorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeFailure(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			operatorID, err := resolver.ResolveOperator(r.Context(), token)
			if err != nil || operatorID == "" {
				writeFailure(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token", nil)
				return
			}

			ctx := activity.WithActor(r.Context(), operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
