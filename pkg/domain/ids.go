// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "passport/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a ContractorID where a
// CredentialID is expected.
type (
	ContractorID   uuid.UUID
	VerificationID uuid.UUID
	CredentialID   uuid.UUID
)

// New functions - use when minting entities.

func NewContractorID() ContractorID     { return ContractorID(uuid.New()) }
func NewVerificationID() VerificationID { return VerificationID(uuid.New()) }
func NewCredentialID() CredentialID     { return CredentialID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseContractorID(s string) (ContractorID, error) {
	id, err := parseUUID(s, "contractor ID")
	return ContractorID(id), err
}

func ParseVerificationID(s string) (VerificationID, error) {
	id, err := parseUUID(s, "verification ID")
	return VerificationID(id), err
}

func ParseCredentialID(s string) (CredentialID, error) {
	id, err := parseUUID(s, "credential ID")
	return CredentialID(id), err
}

// String methods - for logging and token claims.

func (id ContractorID) String() string   { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id CredentialID) String() string   { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id ContractorID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CredentialID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. Nil UUIDs are allowed here so
// store lookups can return proper "not found" errors; use IsNil() at the
// service layer for business validation.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
