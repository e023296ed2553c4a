package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/credential/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

func newCredential(contractorID id.ContractorID, issuedAt time.Time, expiryDays int) *models.Credential {
	return &models.Credential{
		ID:           id.NewCredentialID(),
		ContractorID: contractorID,
		Tier:         models.TierProvisional,
		Token:        "token-" + id.NewCredentialID().String(),
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.AddDate(0, 0, expiryDays),
	}
}

func TestInMemoryCreateSingleWinner(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	contractorID := id.NewContractorID()
	now := time.Now()

	first := newCredential(contractorID, now, 1)
	stored, created, err := store.Create(ctx, first, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, stored.ID)

	// A second create while the first is active must hand back the first.
	second := newCredential(contractorID, now, 1)
	stored, created, err = store.Create(ctx, second, now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, stored.ID)
}

func TestInMemoryCreateConcurrent(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	contractorID := id.NewContractorID()
	now := time.Now()

	var wg sync.WaitGroup
	wins := make(chan id.CredentialID, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			credential := newCredential(contractorID, now, 1)
			_, created, err := store.Create(ctx, credential, now)
			assert.NoError(t, err)
			if created {
				wins <- credential.ID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []id.CredentialID
	for winner := range wins {
		winners = append(winners, winner)
	}
	// Exactly one goroutine may insert; the rest receive the winner's row.
	require.Len(t, winners, 1)

	credentials, err := store.ListByContractor(ctx, contractorID)
	require.NoError(t, err)
	assert.Len(t, credentials, 1)
}

func TestInMemoryCreateAfterExpiry(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	contractorID := id.NewContractorID()
	issuedAt := time.Now().AddDate(0, 0, -2)

	_, created, err := store.Create(ctx, newCredential(contractorID, issuedAt, 1), issuedAt)
	require.NoError(t, err)
	require.True(t, created)

	// The first credential has expired, so a fresh issue wins.
	now := time.Now()
	_, created, err = store.Create(ctx, newCredential(contractorID, now, 1), now)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestInMemoryFindActiveByContractor(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	contractorID := id.NewContractorID()
	now := time.Now()

	_, err := store.FindActiveByContractor(ctx, contractorID, now)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	credential := newCredential(contractorID, now, 1)
	_, _, err = store.Create(ctx, credential, now)
	require.NoError(t, err)

	active, err := store.FindActiveByContractor(ctx, contractorID, now)
	require.NoError(t, err)
	assert.Equal(t, credential.ID, active.ID)

	// Past expiry the same credential no longer counts as active.
	_, err = store.FindActiveByContractor(ctx, contractorID, now.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryRevokeIsOneShot(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now()
	credential := newCredential(id.NewContractorID(), now, 1)
	_, _, err := store.Create(ctx, credential, now)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, credential.ID, now))

	err = store.Revoke(ctx, credential.ID, now.Add(time.Hour))
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	// The first stamp survives the failed second attempt.
	revoked, err := store.FindByID(ctx, credential.ID)
	require.NoError(t, err)
	require.NotNil(t, revoked.RevokedAt)
	assert.True(t, revoked.RevokedAt.Equal(now))
}

func TestInMemoryRevokeUnknown(t *testing.T) {
	store := NewInMemory()
	err := store.Revoke(context.Background(), id.NewCredentialID(), time.Now())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryReturnsCopies(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now()
	credential := newCredential(id.NewContractorID(), now, 1)
	_, _, err := store.Create(ctx, credential, now)
	require.NoError(t, err)

	found, err := store.FindByID(ctx, credential.ID)
	require.NoError(t, err)
	found.Token = "tampered"

	again, err := store.FindByID(ctx, credential.ID)
	require.NoError(t, err)
	assert.Equal(t, credential.Token, again.Token)
}
