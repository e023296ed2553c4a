// Package httptransport assembles the HTTP surface: middleware stack, public
// API routes, admin routes, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contractorhandler "passport/internal/contractor/handler"
	credentialhandler "passport/internal/credential/handler"
	"passport/internal/keys"
	"passport/internal/oauth"
	"passport/internal/platform/health"
	"passport/internal/platform/middleware"
	verificationhandler "passport/internal/verification/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Contractors   *contractorhandler.Handler
	Verifications *verificationhandler.Handler
	Credentials   *credentialhandler.Handler
	OAuth         *oauth.Handler
	Keys          *keys.Handler
	Health        *health.Handler

	// AdminTokenHash guards revocation and amendment; empty disables the
	// guard for local development.
	AdminTokenHash string

	RateLimit *middleware.RateLimit
	Logger    *slog.Logger
}

// NewRouter wires all endpoints with the middleware stack.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata(middleware.MetadataConfig{}))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	// Operational surface sits outside the rate limit.
	deps.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	deps.Keys.Register(r)

	r.Route("/api", func(api chi.Router) {
		if deps.RateLimit != nil {
			api.Use(deps.RateLimit.Handler)
		}

		// OAuth endpoints answer redirects, not JSON, so they mount before
		// the content type middleware.
		deps.OAuth.Register(api)

		api.Group(func(public chi.Router) {
			public.Use(middleware.ContentTypeJSON)
			deps.Contractors.Register(public)
			deps.Verifications.Register(public)
			deps.Credentials.Register(public)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.ContentTypeJSON)
			admin.Use(middleware.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
			deps.Credentials.RegisterAdmin(admin)
			deps.Verifications.RegisterAdmin(admin)
		})
	})

	return r
}
