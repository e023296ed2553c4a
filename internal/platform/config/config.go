package config

import (
	"os"
	"time"
)

// Default lifecycle windows. Tier-specific credential expiry lives with the
// tier requirements in the credential models; these cover ambient concerns.
var (
	OAuthStateTTL   = 15 * time.Minute
	ShutdownTimeout = 10 * time.Second
)

// OAuthProvider holds client credentials for one external identity provider.
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       string
}

// Configured reports whether the provider has usable credentials.
func (p OAuthProvider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURL != ""
}

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr        string
	Environment string

	// Credential token signing.
	Issuer        string
	KeyID         string
	KeyDir        string
	PrivateKeyPEM string
	PublicKeyPEM  string

	// OAuth verification sources.
	OAuthStateSecret string
	GitHub           OAuthProvider
	LinkedIn         OAuthProvider
	WebBaseURL       string

	// Optional bcrypt hash guarding the revocation endpoint.
	AdminTokenHash string

	DatabaseURL string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("PASSPORT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("PASSPORT_ENV")
	if env == "" {
		env = "development"
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "contractor-passport"
	}
	keyID := os.Getenv("JWT_KEY_ID")
	if keyID == "" {
		keyID = "contractor-passport-key-1"
	}
	keyDir := os.Getenv("JWT_KEY_DIR")
	if keyDir == "" {
		keyDir = "keys"
	}
	stateSecret := os.Getenv("OAUTH_STATE_SECRET")
	if stateSecret == "" {
		// Dev fallback; deployments must override.
		stateSecret = "dev-oauth-state-secret"
	}

	if ttl := os.Getenv("OAUTH_STATE_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			OAuthStateTTL = duration
		}
	}

	return Server{
		Addr:             addr,
		Environment:      env,
		Issuer:           issuer,
		KeyID:            keyID,
		KeyDir:           keyDir,
		PrivateKeyPEM:    os.Getenv("JWT_PRIVATE_KEY"),
		PublicKeyPEM:     os.Getenv("JWT_PUBLIC_KEY"),
		OAuthStateSecret: stateSecret,
		GitHub: OAuthProvider{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GITHUB_CALLBACK_URL"),
			Scopes:       envOr("GITHUB_SCOPES", "read:user user:email"),
		},
		LinkedIn: OAuthProvider{
			ClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
			ClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("LINKEDIN_CALLBACK_URL"),
			Scopes:       envOr("LINKEDIN_SCOPES", "openid profile email"),
		},
		WebBaseURL:     os.Getenv("WEB_BASE_URL"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// UsingDefaultOAuthSecret reports whether the insecure dev state secret is active.
func (s Server) UsingDefaultOAuthSecret() bool {
	return s.OAuthStateSecret == "dev-oauth-state-secret"
}
