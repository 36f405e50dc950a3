package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/quizzmate/backend/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write
// the identity value — no collisions with other packages' context use.
type contextKey string

const identityKey contextKey = "identity"

const bearerPrefix = "Bearer "

// IdentityResolver resolves an opaque bearer token to the identity it was
// issued for. Implemented by service.AuthService.
type IdentityResolver interface {
	IdentityFromToken(ctx context.Context, token string) (*model.Identity, error)
}

// AdminChecker reports whether the given email currently has the admin
// flag. Implemented by service.AuthService.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAuth enforces bearer-token authentication on protected routes.
//
// The token is read from the Authorization header, which must start with
// exactly "Bearer ". A missing header, malformed header, unknown token, or
// token whose user has since been deleted all fail the same way: 401 with
// no hint as to which check failed.
//
// On success the resolved Identity is stored in the request context for
// handlers to read via IdentityFromContext.
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				unauthorized(w)
				return
			}

			token := strings.TrimPrefix(header, bearerPrefix)
			identity, err := resolver.IdentityFromToken(r.Context(), token)
			if err != nil || identity == nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes. It must run after RequireAuth.
//
// The admin flag is re-read from the credential store on EVERY request —
// never cached in the token — so revoking a user's admin privilege takes
// effect on their very next request.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			isAdmin, err := checker.IsAdmin(r.Context(), identity.Email)
			if err != nil || !isAdmin {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success":false,"message":"Admin access required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth. Returns (nil, false) if the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}

// ContextWithIdentity returns a context carrying the given identity.
// Exported for handler tests that bypass the middleware.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
}
