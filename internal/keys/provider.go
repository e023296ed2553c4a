// Package keys supplies the RSA signing material for credential tokens and
// publishes the public half in JWKS form for third-party verifiers.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

const (
	privateKeyFile = "jwt-private.pem"
	publicKeyFile  = "jwt-public.pem"

	modulusBits = 2048
)

// Config controls how key material is resolved. Resolution order: explicit
// PEM pair (centralized secret management) → persisted pair under Dir →
// freshly generated pair persisted under Dir for future loads.
type Config struct {
	KeyID      string
	Dir        string
	PrivatePEM string
	PublicPEM  string
}

// Provider holds the resolved signing key pair. The key identifier stays
// stable across restarts as long as the underlying material is unchanged, so
// previously issued tokens keep validating.
type Provider struct {
	keyID   string
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// JWK is a single RSA public key in JSON Web Key numeric-parameter form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is the published key set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Load resolves the signing key pair per the configured resolution order.
func Load(cfg Config) (*Provider, error) {
	if cfg.KeyID == "" {
		cfg.KeyID = "contractor-passport-key-1"
	}

	if cfg.PrivatePEM != "" && cfg.PublicPEM != "" {
		return fromPEM(cfg.KeyID, []byte(cfg.PrivatePEM), []byte(cfg.PublicPEM))
	}

	privatePath := filepath.Join(cfg.Dir, privateKeyFile)
	publicPath := filepath.Join(cfg.Dir, publicKeyFile)

	privatePEM, privErr := os.ReadFile(privatePath)
	publicPEM, pubErr := os.ReadFile(publicPath)
	if privErr == nil && pubErr == nil {
		return fromPEM(cfg.KeyID, privatePEM, publicPEM)
	}

	private, err := rsa.GenerateKey(rand.Reader, modulusBits)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	if err := persist(private, privatePath, publicPath); err != nil {
		return nil, err
	}

	return &Provider{keyID: cfg.KeyID, private: private, public: &private.PublicKey}, nil
}

func fromPEM(keyID string, privatePEM, publicPEM []byte) (*Provider, error) {
	privBlock, _ := pem.Decode(privatePEM)
	if privBlock == nil {
		return nil, fmt.Errorf("no PEM block in private key")
	}
	priv, err := x509.ParsePKCS8PrivateKey(privBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaPriv, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}

	pubBlock, _ := pem.Decode(publicPEM)
	if pubBlock == nil {
		return nil, fmt.Errorf("no PEM block in public key")
	}
	pub, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}

	return &Provider{keyID: keyID, private: rsaPriv, public: rsaPub}, nil
}

func persist(private *rsa.PrivateKey, privatePath, publicPath string) error {
	if err := os.MkdirAll(filepath.Dir(privatePath), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(private)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	if err := os.WriteFile(privatePath, privPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if err := os.WriteFile(publicPath, pubPEM, 0o600); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	return nil
}

// KeyID returns the stable public key identifier.
func (p *Provider) KeyID() string {
	return p.keyID
}

// Private returns the signing key.
func (p *Provider) Private() *rsa.PrivateKey {
	return p.private
}

// Public returns the verification key.
func (p *Provider) Public() *rsa.PublicKey {
	return p.public
}

// JWKS exports the public key in standard key-set form.
func (p *Provider) JWKS() JWKS {
	return JWKS{Keys: []JWK{{
		Kty: "RSA",
		Use: "sig",
		Kid: p.keyID,
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(p.public.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(p.public.E)).Bytes()),
	}}}
}
