package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/services"
)

type contextKey string

const claimsContextKey contextKey = "claims"

var ErrNoClaims = errors.New("user claims not found in context")

// Authenticate validates the bearer token and stores the parsed claims in the
// request context. Requests without a valid token are rejected with 401.
func Authenticate(auth services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize restricts a route to the given roles. Must run after Authenticate.
func Authorize(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(claimsContextKey).(*services.Claims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if role == claims.Role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	if !ok {
		return 0, ErrNoClaims
	}
	return claims.UserID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	if !ok {
		return "", ErrNoClaims
	}
	return claims.Role, nil
}
