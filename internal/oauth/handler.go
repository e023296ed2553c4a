package oauth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"passport/internal/transport/http/shared"
	"passport/internal/transport/http/shared/json"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Handler exposes the OAuth verification flow.
type Handler struct {
	service    *Service
	webBaseURL string
	logger     *slog.Logger
}

func NewHandler(service *Service, webBaseURL string, logger *slog.Logger) *Handler {
	return &Handler{service: service, webBaseURL: webBaseURL, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/oauth/{provider}/start", h.HandleStart)
	r.Get("/oauth/{provider}/callback", h.HandleCallback)
}

// HandleStart implements GET /oauth/{provider}/start. On success the user is
// redirected to the provider's authorize page.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	contractorID, err := id.ParseContractorID(r.URL.Query().Get("contractorId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid contractor id"))
		return
	}
	verificationID, err := id.ParseVerificationID(r.URL.Query().Get("verificationId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid verification id"))
		return
	}
	returnTo := r.URL.Query().Get("returnTo")
	if returnTo != "" && !h.allowedReturnTo(returnTo) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "returnTo must stay on the configured web origin"))
		return
	}

	authorizeURL, err := h.service.Start(r.Context(), provider, contractorID, verificationID, returnTo)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// HandleCallback implements GET /oauth/{provider}/callback. The user ends up
// back on the web app when a returnTo was bound into the state; API clients
// without one get a JSON body.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	query := r.URL.Query()

	stateToken := query.Get("state")
	if stateToken == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing oauth state"))
		return
	}

	// Providers report user denial via an error parameter instead of a code.
	code := query.Get("code")
	if code == "" {
		h.logger.InfoContext(r.Context(), "oauth flow denied by user",
			"provider", provider,
			"provider_error", query.Get("error"),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "authorization code missing"))
		return
	}

	result, err := h.service.Callback(r.Context(), provider, code, stateToken)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if result.ReturnTo != "" {
		http.Redirect(w, r, callbackRedirect(result), http.StatusFound)
		return
	}

	json.WriteJSON(w, http.StatusOK, map[string]any{
		"verified": result.Verified,
		"provider": provider,
		"reason":   result.Reason,
	})
}

func (h *Handler) allowedReturnTo(returnTo string) bool {
	if h.webBaseURL == "" {
		return false
	}
	return strings.HasPrefix(returnTo, h.webBaseURL)
}

func callbackRedirect(result *CallbackResult) string {
	query := url.Values{}
	if result.Verified {
		query.Set("verified", "true")
	} else {
		query.Set("verified", "false")
		query.Set("reason", result.Reason)
	}
	separator := "?"
	if strings.Contains(result.ReturnTo, "?") {
		separator = "&"
	}
	return result.ReturnTo + separator + query.Encode()
}
