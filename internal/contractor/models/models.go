package models

import (
	"time"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Contractor is the identity anchor. It owns verifications and credentials
// and is immutable once created.
type Contractor struct {
	ID        id.ContractorID
	Name      string
	Email     string
	CreatedAt time.Time
}

// New creates a Contractor with domain invariant checks.
func New(contractorID id.ContractorID, name, email string, createdAt time.Time) (*Contractor, error) {
	if contractorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "contractor ID required")
	}
	if len(name) < 2 {
		return nil, dErrors.New(dErrors.CodeValidation, "name must be at least 2 characters")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return &Contractor{
		ID:        contractorID,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}
