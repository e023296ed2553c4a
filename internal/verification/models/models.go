package models

import (
	"time"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Type is one of the closed set of requirement types a verification can satisfy.
type Type string

const (
	TypeIdentity        Type = "identity"
	TypeGitHub          Type = "github"
	TypeLinkedIn        Type = "linkedin"
	TypeBackgroundCheck Type = "background_check"
	TypeReference       Type = "reference"
)

// AllTypes lists every valid verification type.
func AllTypes() []Type {
	return []Type{TypeIdentity, TypeGitHub, TypeLinkedIn, TypeBackgroundCheck, TypeReference}
}

func (t Type) IsValid() bool {
	switch t {
	case TypeIdentity, TypeGitHub, TypeLinkedIn, TypeBackgroundCheck, TypeReference:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Status is the lifecycle state of a verification attempt.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status is a completed outcome.
func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusFailed
}

func (s Status) String() string { return string(s) }

// Payload is the opaque provenance bag attached to a verification. Provider
// payloads vary by type, so this stays schema-less by design of the record
// model, not by accident.
type Payload map[string]any

// Record is one attempt to satisfy one requirement type for one contractor.
// A contractor may hold multiple records of the same type (two "reference"
// records, for example).
type Record struct {
	ID           id.VerificationID
	ContractorID id.ContractorID
	Type         Type
	Status       Status
	Provider     string
	Payload      Payload
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// New creates a pending Record with domain invariant checks.
func New(verificationID id.VerificationID, contractorID id.ContractorID, vType Type, provider string, payload Payload, createdAt time.Time) (*Record, error) {
	if verificationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "verification ID required")
	}
	if contractorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "contractor ID required")
	}
	if !vType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid verification type")
	}
	if provider == "" {
		provider = "manual"
	}
	if payload == nil {
		payload = Payload{}
	}
	return &Record{
		ID:           verificationID,
		ContractorID: contractorID,
		Type:         vType,
		Status:       StatusPending,
		Provider:     provider,
		Payload:      payload,
		CreatedAt:    createdAt,
	}, nil
}

// Complete transitions a pending record to a terminal status. Non-pending
// records must go through Amend instead.
func (r *Record) Complete(status Status, payload Payload, completedAt time.Time) error {
	if r.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, "verification already completed")
	}
	if !status.IsTerminal() {
		return dErrors.New(dErrors.CodeValidation, "completion status must be verified or failed")
	}
	r.Status = status
	if payload != nil {
		r.Payload = payload
	}
	r.CompletedAt = &completedAt
	return nil
}

// Amend re-transitions a record that already reached a terminal status. This
// is the explicit correction path for manual fixes; it refuses pending
// records so Complete stays the only pending exit.
func (r *Record) Amend(status Status, payload Payload, amendedAt time.Time) error {
	if r.Status == StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, "pending verifications must be completed, not amended")
	}
	if !status.IsTerminal() {
		return dErrors.New(dErrors.CodeValidation, "amended status must be verified or failed")
	}
	r.Status = status
	if payload != nil {
		r.Payload = payload
	}
	r.CompletedAt = &amendedAt
	return nil
}
