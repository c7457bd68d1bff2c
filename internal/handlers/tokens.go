package handlers

import (
	"context"
	"net/http"

	"github.com/taskflow/taskflow/internal/auth"
	pkghttp "github.com/taskflow/taskflow/pkg/http"
)

// TokenLister dumps the full token bucket
type TokenLister interface {
	All(ctx context.Context) (map[string]string, error)
}

// TokenHandler exposes the active-session inventory. Gated like every
// other route; the dump maps opaque tokens to the emails they resolve to.
type TokenHandler struct {
	store TokenLister
}

func NewTokenHandler(store TokenLister) *TokenHandler {
	return &TokenHandler{store: store}
}

func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tokens, err := h.store.All(r.Context())
	if err != nil {
		pkghttp.WriteServiceUnavailable(w, "Token store unavailable")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tokens)
}
