package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passport/pkg/domain-errors"
)

func TestParseContractorID(t *testing.T) {
	t.Run("valid uuid parses", func(t *testing.T) {
		raw := uuid.New().String()
		id, err := ParseContractorID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
	})

	t.Run("empty string rejected", func(t *testing.T) {
		_, err := ParseContractorID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("malformed uuid rejected", func(t *testing.T) {
		_, err := ParseContractorID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestIsNil(t *testing.T) {
	assert.True(t, ContractorID(uuid.Nil).IsNil())
	assert.False(t, NewCredentialID().IsNil())
	assert.False(t, NewVerificationID().IsNil())
}
