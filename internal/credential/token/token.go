// Package token mints and verifies the RS256 credential tokens that third
// parties can check offline against the published JWKS.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"passport/internal/keys"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// VerifiedClaim is the snapshot of one verified record embedded in the token.
type VerifiedClaim struct {
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Claims is the credential token payload. The subject is the contractor ID.
type Claims struct {
	Tier          string          `json:"tier"`
	Verifications []VerifiedClaim `json:"verifications"`
	jwt.RegisteredClaims
}

// Signer mints and verifies credential tokens with the provider's key pair.
type Signer struct {
	provider *keys.Provider
	issuer   string
}

// NewSigner returns a signer bound to the given key material and issuer.
func NewSigner(provider *keys.Provider, issuer string) *Signer {
	return &Signer{provider: provider, issuer: issuer}
}

// Mint signs a credential token for the contractor. The verified records are
// embedded as a snapshot of the evidence the tier was granted on.
func (s *Signer) Mint(contractorID id.ContractorID, tier string, verifications []*verificationmodels.Record, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Tier:          tier,
		Verifications: make([]VerifiedClaim, 0, len(verifications)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   contractorID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	for _, record := range verifications {
		claims.Verifications = append(claims.Verifications, VerifiedClaim{
			Type:        string(record.Type),
			Status:      string(record.Status),
			Provider:    record.Provider,
			CompletedAt: record.CompletedAt,
		})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.provider.KeyID()

	signed, err := token.SignedString(s.provider.Private())
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign credential token")
	}
	return signed, nil
}

// Verify checks the token signature and returns its claims. Time-based claims
// are not validated here: the stored credential record is the source of truth
// for expiry and revocation, so verification stays consistent with the record
// even when clocks drift.
func (s *Signer) Verify(signed string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, dErrors.New(dErrors.CodeInvalidToken, "unexpected signing method")
		}
		return s.provider.Public(), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidToken, "invalid credential token signature")
	}
	return claims, nil
}
