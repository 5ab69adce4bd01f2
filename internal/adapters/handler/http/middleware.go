package http

import (
	"context"
	"net/http"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

const sessionCookie = "token"

type contextKey struct{}

var userKey contextKey

// CurrentUser returns the authenticated account attached to the request,
// if any.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// Authenticate resolves the session cookie into an account on the request
// context. It never rejects: a missing, expired or garbage cookie, or a
// token whose account is gone, just leaves the request anonymous.
// Enforcement is per-route via RequireUser.
func Authenticate(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Resolve(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			respondError(w, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
