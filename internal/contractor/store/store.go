package store

import (
	"context"

	"passport/internal/contractor/models"
	id "passport/pkg/domain"
)

// Store is the persistence interface for contractors.
//
// Error Contract:
// - FindByID / FindByEmail return sentinel.ErrNotFound when no record exists
// - Save returns sentinel.ErrConflict when the email is already registered
// - Other failures are returned as wrapped infrastructure errors
type Store interface {
	Save(ctx context.Context, contractor *models.Contractor) error
	FindByID(ctx context.Context, contractorID id.ContractorID) (*models.Contractor, error)
	FindByEmail(ctx context.Context, email string) (*models.Contractor, error)
}
