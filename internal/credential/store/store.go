package store

import (
	"context"
	"time"

	"passport/internal/credential/models"
	id "passport/pkg/domain"
)

// Store is the persistence interface for credentials.
//
// Error Contract:
// - FindByID returns sentinel.ErrNotFound when no credential exists
// - FindActiveByContractor returns sentinel.ErrNotFound when the contractor
//   holds no active credential
// - Revoke returns sentinel.ErrNotFound when no credential exists and
//   sentinel.ErrInvalidState when it was already revoked
// - Other failures are returned as wrapped infrastructure errors
type Store interface {
	// Create inserts the credential unless the contractor already holds an
	// active one at the given time. The check and insert are atomic, so two
	// concurrent issuances cannot both succeed: the loser receives the
	// winner's credential and created=false.
	Create(ctx context.Context, credential *models.Credential, now time.Time) (*models.Credential, bool, error)
	FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	FindActiveByContractor(ctx context.Context, contractorID id.ContractorID, now time.Time) (*models.Credential, error)
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Credential, error)
	Revoke(ctx context.Context, credentialID id.CredentialID, revokedAt time.Time) error
}
