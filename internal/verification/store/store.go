package store

import (
	"context"

	"passport/internal/verification/models"
	id "passport/pkg/domain"
)

// Store is the persistence interface for verification records.
//
// Error Contract:
// - FindByID returns sentinel.ErrNotFound when no record exists
// - Update returns sentinel.ErrNotFound when the record vanished
// - Other failures are returned as wrapped infrastructure errors
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, verificationID id.VerificationID) (*models.Record, error)
	Update(ctx context.Context, record *models.Record) error
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Record, error)
}
