package keys

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/transport/http/shared/json"
)

// Handler publishes the JWKS document.
type Handler struct {
	provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

// Register mounts the well-known key set route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/.well-known/jwks.json", h.handleJWKS)
}

func (h *Handler) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	json.WriteJSON(w, http.StatusOK, h.provider.JWKS())
}
