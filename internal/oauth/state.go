// Package oauth verifies contractor identities through external providers.
// The OAuth state parameter is a short-lived HS256 token binding the flow to
// one contractor and one pending verification record, so callbacks cannot be
// replayed against another record.
package oauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

const stateIssuer = "contractor-passport-oauth"

// State is what a round-trip through the provider must preserve.
type State struct {
	ContractorID   id.ContractorID
	VerificationID id.VerificationID
	Provider       string
	ReturnTo       string
}

type stateClaims struct {
	ContractorID   string `json:"contractorId"`
	VerificationID string `json:"verificationId"`
	Provider       string `json:"provider"`
	ReturnTo       string `json:"returnTo,omitempty"`
	jwt.RegisteredClaims
}

// StateCodec signs and verifies OAuth state tokens.
type StateCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateCodec(secret string, ttl time.Duration) *StateCodec {
	return &StateCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Encode mints a state token for the flow.
func (c *StateCodec) Encode(state State) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		ContractorID:   state.ContractorID.String(),
		VerificationID: state.VerificationID.String(),
		Provider:       state.Provider,
		ReturnTo:       state.ReturnTo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign oauth state")
	}
	return signed, nil
}

// Decode verifies the signature, issuer, and expiry of a state token.
func (c *StateCodec) Decode(signed string) (*State, error) {
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeInvalidToken, "unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithIssuer(stateIssuer), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidToken, "invalid oauth state")
	}

	contractorID, err := id.ParseContractorID(claims.ContractorID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "invalid oauth state")
	}
	verificationID, err := id.ParseVerificationID(claims.VerificationID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "invalid oauth state")
	}

	return &State{
		ContractorID:   contractorID,
		VerificationID: verificationID,
		Provider:       claims.Provider,
		ReturnTo:       claims.ReturnTo,
	}, nil
}
