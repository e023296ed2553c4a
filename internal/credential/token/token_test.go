package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/keys"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func newSigner(t *testing.T, issuer string) *Signer {
	t.Helper()
	provider, err := keys.Load(keys.Config{KeyID: "test-key-1", Dir: t.TempDir()})
	require.NoError(t, err)
	return NewSigner(provider, issuer)
}

func TestMintAndVerify(t *testing.T) {
	signer := newSigner(t, "contractor-passport")
	contractorID := id.NewContractorID()

	completedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*verificationmodels.Record{{
		ID:           id.NewVerificationID(),
		ContractorID: contractorID,
		Type:         verificationmodels.TypeIdentity,
		Status:       verificationmodels.StatusVerified,
		Provider:     "manual",
		CompletedAt:  &completedAt,
	}}

	issuedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.AddDate(0, 0, 1)

	signed, err := signer.Mint(contractorID, "PROVISIONAL", records, issuedAt, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "PROVISIONAL", claims.Tier)
	assert.Equal(t, contractorID.String(), claims.Subject)
	assert.Equal(t, "contractor-passport", claims.Issuer)
	assert.True(t, claims.IssuedAt.Equal(issuedAt))
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))

	require.Len(t, claims.Verifications, 1)
	assert.Equal(t, "identity", claims.Verifications[0].Type)
	assert.Equal(t, "verified", claims.Verifications[0].Status)
	assert.Equal(t, "manual", claims.Verifications[0].Provider)
	require.NotNil(t, claims.Verifications[0].CompletedAt)
	assert.True(t, claims.Verifications[0].CompletedAt.Equal(completedAt))
}

func TestVerifyExpiredTokenStillParses(t *testing.T) {
	// Expiry is enforced against the stored record, not the token, so a
	// signature-valid token past its exp claim must still parse.
	signer := newSigner(t, "contractor-passport")
	contractorID := id.NewContractorID()

	issuedAt := time.Now().AddDate(0, 0, -10)
	signed, err := signer.Mint(contractorID, "PROVISIONAL", nil, issuedAt, issuedAt.AddDate(0, 0, 1))
	require.NoError(t, err)

	claims, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, contractorID.String(), claims.Subject)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	signer := newSigner(t, "contractor-passport")
	other := newSigner(t, "contractor-passport")

	signed, err := other.Mint(id.NewContractorID(), "PROVISIONAL", nil, time.Now(), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)

	_, err = signer.Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := newSigner(t, "contractor-passport")

	_, err := signer.Verify("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}
