package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func newPending(t *testing.T) *Record {
	t.Helper()
	record, err := New(id.NewVerificationID(), id.NewContractorID(), TypeIdentity, "", nil, time.Now())
	require.NoError(t, err)
	return record
}

func TestNew(t *testing.T) {
	record := newPending(t)
	assert.Equal(t, StatusPending, record.Status)
	// Provider defaults when the caller leaves it empty.
	assert.Equal(t, "manual", record.Provider)
	assert.NotNil(t, record.Payload)
	assert.Nil(t, record.CompletedAt)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(id.NewVerificationID(), id.NewContractorID(), Type("palm_reading"), "", nil, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestComplete(t *testing.T) {
	record := newPending(t)
	completedAt := time.Now()

	require.NoError(t, record.Complete(StatusVerified, Payload{"document": "passport"}, completedAt))
	assert.Equal(t, StatusVerified, record.Status)
	assert.Equal(t, "passport", record.Payload["document"])
	require.NotNil(t, record.CompletedAt)
	assert.True(t, record.CompletedAt.Equal(completedAt))
}

func TestCompleteIsOneShot(t *testing.T) {
	record := newPending(t)
	require.NoError(t, record.Complete(StatusFailed, nil, time.Now()))

	err := record.Complete(StatusVerified, nil, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	// The failed outcome stays.
	assert.Equal(t, StatusFailed, record.Status)
}

func TestCompleteRejectsPendingTarget(t *testing.T) {
	record := newPending(t)
	err := record.Complete(StatusPending, nil, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAmendFlipsTerminalStatus(t *testing.T) {
	record := newPending(t)
	require.NoError(t, record.Complete(StatusFailed, nil, time.Now()))

	amendedAt := time.Now().Add(time.Hour)
	require.NoError(t, record.Amend(StatusVerified, Payload{"note": "manual review"}, amendedAt))
	assert.Equal(t, StatusVerified, record.Status)
	assert.True(t, record.CompletedAt.Equal(amendedAt))
}

func TestAmendRejectsPending(t *testing.T) {
	record := newPending(t)
	err := record.Amend(StatusVerified, nil, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	assert.Equal(t, StatusPending, record.Status)
}

func TestAmendKeepsPayloadWhenNil(t *testing.T) {
	record := newPending(t)
	require.NoError(t, record.Complete(StatusVerified, Payload{"document": "passport"}, time.Now()))

	require.NoError(t, record.Amend(StatusFailed, nil, time.Now()))
	assert.Equal(t, "passport", record.Payload["document"])
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusVerified.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}
