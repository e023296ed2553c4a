package audit

import (
	"context"

	dErrors "passport/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")
)

// Store is the append-only persistence interface for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByContractor(ctx context.Context, contractorID string) ([]Event, error)
}
