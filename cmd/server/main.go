// Command server runs the contractor passport API: onboarding, verification
// records, OAuth identity checks, and signed credential issuance.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passport/internal/audit"
	contractorhandler "passport/internal/contractor/handler"
	contractorservice "passport/internal/contractor/service"
	contractorstore "passport/internal/contractor/store"
	credentialhandler "passport/internal/credential/handler"
	credentialservice "passport/internal/credential/service"
	credentialstore "passport/internal/credential/store"
	"passport/internal/credential/token"
	"passport/internal/events"
	"passport/internal/keys"
	"passport/internal/oauth"
	"passport/internal/platform/config"
	"passport/internal/platform/database"
	"passport/internal/platform/health"
	"passport/internal/platform/httpserver"
	"passport/internal/platform/logger"
	"passport/internal/platform/metrics"
	"passport/internal/platform/middleware"
	httptransport "passport/internal/transport/http"
	verificationhandler "passport/internal/verification/handler"
	verificationservice "passport/internal/verification/service"
	verificationstore "passport/internal/verification/store"
	"passport/migrations"
	"passport/pkg/secrets"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	log.Info("initializing contractor passport",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"issuer", cfg.Issuer,
	)
	if cfg.UsingDefaultOAuthSecret() && cfg.Environment != "development" {
		log.Warn("oauth state secret is the development default; set OAUTH_STATE_SECRET")
	}

	// Outside development the admin surface must not run unguarded. When no
	// hash is configured, mint a one-time token and log it so the operator
	// can still reach the revoke/amend endpoints.
	adminTokenHash := cfg.AdminTokenHash
	if adminTokenHash == "" && cfg.Environment != "development" {
		adminToken, err := secrets.Generate()
		if err != nil {
			log.Error("failed to generate admin token", "error", err)
			os.Exit(1)
		}
		if adminTokenHash, err = secrets.Hash(adminToken); err != nil {
			log.Error("failed to hash admin token", "error", err)
			os.Exit(1)
		}
		log.Warn("ADMIN_TOKEN_HASH not set, generated a one-time admin token", "token", adminToken)
	}

	provider, err := keys.Load(keys.Config{
		KeyID:      cfg.KeyID,
		Dir:        cfg.KeyDir,
		PrivatePEM: cfg.PrivateKeyPEM,
		PublicPEM:  cfg.PublicKeyPEM,
	})
	if err != nil {
		log.Error("failed to load signing keys", "error", err)
		os.Exit(1)
	}

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	pool, err := database.New(dbConfig)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var (
		contractorStore   contractorservice.Store
		verificationStore verificationservice.Store
		credentialStore   credentialservice.Store
		auditStore        audit.Store
	)
	if pool != nil {
		log.Info("using postgres stores")
		if err := database.Migrate(context.Background(), pool.DB(), migrations.FS); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		contractorStore = contractorstore.NewPostgres(pool.DB())
		verificationStore = verificationstore.NewPostgres(pool.DB())
		credentialStore = credentialstore.NewPostgres(pool.DB())
		auditStore = audit.NewPostgresStore(pool.DB())
		defer pool.Close()
	} else {
		log.Info("no DATABASE_URL set, using in-memory stores")
		contractorStore = contractorstore.NewInMemory()
		verificationStore = verificationstore.NewInMemory()
		credentialStore = credentialstore.NewInMemory()
		auditStore = audit.NewInMemoryStore()
	}

	appMetrics := metrics.New()
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()
	publisher := events.NewPublisher(log)

	contractorSvc := contractorservice.NewService(
		contractorStore,
		verificationStore,
		credentialStore,
		auditor,
		publisher,
		log,
		contractorservice.WithMetrics(appMetrics),
	)
	// Cross-domain reads go through the stores, which keeps the service
	// graph acyclic.
	verificationSvc := verificationservice.NewService(
		verificationStore,
		contractorStore,
		auditor,
		publisher,
		log,
		verificationservice.WithMetrics(appMetrics),
	)

	signer := token.NewSigner(provider, cfg.Issuer)
	credentialSvc := credentialservice.NewService(
		credentialStore,
		contractorStore,
		verificationStore,
		signer,
		auditor,
		publisher,
		log,
		credentialservice.WithMetrics(appMetrics),
	)

	stateCodec := oauth.NewStateCodec(cfg.OAuthStateSecret, config.OAuthStateTTL)
	var exchangers []oauth.Exchanger
	if cfg.GitHub.Configured() {
		exchangers = append(exchangers, oauth.NewGitHub(cfg.GitHub))
	}
	if cfg.LinkedIn.Configured() {
		exchangers = append(exchangers, oauth.NewLinkedIn(cfg.LinkedIn))
	}
	oauthSvc := oauth.NewService(stateCodec, verificationSvc, auditor, log, exchangers...)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", pool.HealthCheck)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Contractors:    contractorhandler.New(contractorSvc, log),
		Verifications:  verificationhandler.New(verificationSvc, log),
		Credentials:    credentialhandler.New(credentialSvc, log),
		OAuth:          oauth.NewHandler(oauthSvc, cfg.WebBaseURL, log),
		Keys:           keys.NewHandler(provider),
		Health:         healthHandler,
		AdminTokenHash: adminTokenHash,
		RateLimit:      middleware.NewRateLimit(60, time.Minute),
		Logger:         log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
