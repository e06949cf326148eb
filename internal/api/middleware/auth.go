package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/auth"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

// Identity is the resolved acting user, placed in the request context by
// the authorization gate.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Admin bool
}

type contextKeyIdentity struct{}

// TokenResolver maps a bearer token to its user. storage.ErrNotFound means
// the token matches nothing.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*storage.User, error)
}

// RequireUser is the authorization gate: it extracts the bearer token from
// the Authorization header (raw value or "<scheme> <token>"), resolves the
// owning user, and rejects the request when either step fails. The check
// runs independently on every request; there is no session cache.
func RequireUser(resolver TokenResolver, auditor *audit.Logger) func(http.Handler) http.Handler {
	return requireIdentity(resolver, auditor, false)
}

// RequireAdmin is the admin-gated variant: the resolved user must also
// carry the admin flag, otherwise the request fails with 403.
func RequireAdmin(resolver TokenResolver, auditor *audit.Logger) func(http.Handler) http.Handler {
	return requireIdentity(resolver, auditor, true)
}

func requireIdentity(resolver TokenResolver, auditor *audit.Logger, admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				auditor.Failure(r.Context(), r, "Token is missing", nil, nil, http.StatusUnauthorized, nil)
				respond.Error(w, r, http.StatusUnauthorized, "Token is missing", nil)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), auth.ExtractToken(header))
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					auditor.Failure(r.Context(), r, "Invalid token", nil, nil, http.StatusUnauthorized, nil)
					respond.Error(w, r, http.StatusUnauthorized, "Invalid token", nil)
					return
				}
				auditor.Failure(r.Context(), r, "Token lookup failed", nil, nil, http.StatusInternalServerError, err)
				respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
				return
			}

			if admin && !user.Admin {
				auditor.Failure(r.Context(), r, "Unauthorized", &user.ID, &user.Name, http.StatusForbidden, nil)
				respond.Error(w, r, http.StatusForbidden, "Unauthorized", nil)
				return
			}

			identity := &Identity{ID: user.ID, Name: user.Name, Email: user.Email, Admin: user.Admin}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// ContextWithIdentity attaches the acting user to a context.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity{}, identity)
}

// IdentityFromContext returns the acting user, or nil when the request did
// not pass through the gate.
func IdentityFromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if identity, ok := ctx.Value(contextKeyIdentity{}).(*Identity); ok {
		return identity
	}
	return nil
}
