package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func TestStateRoundTrip(t *testing.T) {
	codec := NewStateCodec("test-secret", 15*time.Minute)
	state := State{
		ContractorID:   id.NewContractorID(),
		VerificationID: id.NewVerificationID(),
		Provider:       ProviderGitHub,
		ReturnTo:       "https://app.example.com/verifications",
	}

	signed, err := codec.Encode(state)
	require.NoError(t, err)

	decoded, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, state, *decoded)
}

func TestStateExpires(t *testing.T) {
	codec := NewStateCodec("test-secret", 15*time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	codec.now = func() time.Time { return issuedAt }

	signed, err := codec.Encode(State{
		ContractorID:   id.NewContractorID(),
		VerificationID: id.NewVerificationID(),
		Provider:       ProviderGitHub,
	})
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Decode(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}

func TestStateRejectsForeignSecret(t *testing.T) {
	signed, err := NewStateCodec("secret-a", 15*time.Minute).Encode(State{
		ContractorID:   id.NewContractorID(),
		VerificationID: id.NewVerificationID(),
		Provider:       ProviderLinkedIn,
	})
	require.NoError(t, err)

	_, err = NewStateCodec("secret-b", 15*time.Minute).Decode(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}

func TestStateRejectsGarbage(t *testing.T) {
	codec := NewStateCodec("test-secret", 15*time.Minute)
	_, err := codec.Decode("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}
