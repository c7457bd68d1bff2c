package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	httperr "github.com/taskflow/taskflow/pkg/http"
)

// BearerPrefix marks a bearer-style credential. The full prefixed string
// is the opaque token key used by the store.
const BearerPrefix = "Bearer "

// Gate failure taxonomy. Both surface to the caller as client errors;
// the wrapped handler never runs on either path.
var (
	// ErrMissingCredential: no bearer-prefixed credential on the call.
	ErrMissingCredential = errors.New("missing bearer credential")

	// ErrUnresolvedIdentity: credential present but not resolvable.
	// Deliberately indistinguishable from "expired" or "revoked" - the
	// store has no distinct states for those.
	ErrUnresolvedIdentity = errors.New("identity not resolved for token")
)

// contextKey is a custom type for context keys
type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the resolved caller attached to gated requests.
type Identity struct {
	Email   string
	Subject string
	Scope   string
}

// TokenResolver is the slice of the token store the gate depends on.
type TokenResolver interface {
	Lookup(ctx context.Context, token string) (string, bool, error)
	Delete(ctx context.Context, token string) error
}

// RequireIdentity gates handlers on a cache-resolved identity.
//
// The store is authoritative for revocation (logout deletes the row), but
// a cache hit is only trusted after the signed token's signature and
// expiry verify: the store has no TTL, so a stale row must not keep a
// token alive past its embedded lifetime. Stale rows are deleted
// best-effort when detected.
func RequireIdentity(store TokenResolver, tm *TokenManager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, BearerPrefix) {
				httperr.WriteUnauthorized(w, ErrMissingCredential.Error())
				return
			}

			email, found, err := store.Lookup(r.Context(), authHeader)
			if err != nil {
				// Store outage: fail closed rather than guess.
				logger.Error("token store lookup failed", slog.Any("error", err))
				httperr.WriteServiceUnavailable(w, "unable to verify credential")
				return
			}
			if !found {
				httperr.WriteUnauthorized(w, ErrUnresolvedIdentity.Error())
				return
			}

			claims, err := tm.Validate(strings.TrimPrefix(authHeader, BearerPrefix))
			if err != nil {
				if delErr := store.Delete(r.Context(), authHeader); delErr != nil {
					logger.Warn("failed to delete stale token", slog.Any("error", delErr))
				}
				httperr.WriteUnauthorized(w, ErrUnresolvedIdentity.Error())
				return
			}

			logger.Info("identity resolved", slog.String("email", email))

			identity := &Identity{
				Email:   email,
				Subject: claims.Subject,
				Scope:   claims.Scope,
			}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the resolved identity, or nil outside a
// gated handler.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// WithIdentity attaches an identity to ctx. Exposed for handler tests.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
