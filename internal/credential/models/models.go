package models

import (
	"time"

	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
)

// Tier is a named privilege level granted by a credential.
type Tier string

const (
	TierProvisional   Tier = "PROVISIONAL"
	TierFullClearance Tier = "FULL_CLEARANCE"
)

func (t Tier) String() string { return string(t) }

// TierRequirement describes what a tier demands: required verification types,
// optional per-type minimum verified counts, and the validity window of the
// resulting credential in calendar days.
type TierRequirement struct {
	Tier              Tier
	Required          []verificationmodels.Type
	MinVerifiedByType map[verificationmodels.Type]int
	ExpiryDays        int
}

// Requirements returns the static tier list, most-privileged first. The
// evaluator walks it in order and grants the first satisfied tier.
func Requirements() []TierRequirement {
	return []TierRequirement{
		{
			Tier: TierFullClearance,
			Required: []verificationmodels.Type{
				verificationmodels.TypeIdentity,
				verificationmodels.TypeGitHub,
				verificationmodels.TypeLinkedIn,
				verificationmodels.TypeBackgroundCheck,
				verificationmodels.TypeReference,
			},
			MinVerifiedByType: map[verificationmodels.Type]int{
				verificationmodels.TypeReference: 2,
			},
			ExpiryDays: 90,
		},
		{
			Tier: TierProvisional,
			Required: []verificationmodels.Type{
				verificationmodels.TypeIdentity,
			},
			ExpiryDays: 1, // 24 hours for provisional
		},
	}
}

// Credential is a signed, time-bounded tier grant derived from a snapshot of
// verified records at issuance time. Tier, token, and expiry never mutate
// after creation; only RevokedAt transitions from nil to set, exactly once.
type Credential struct {
	ID           id.CredentialID
	ContractorID id.ContractorID
	Tier         Tier
	Token        string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	RevokedAt    *time.Time
}

// IsRevoked reports whether the credential has been revoked.
func (c Credential) IsRevoked() bool {
	return c.RevokedAt != nil
}

// IsExpired reports whether the credential's validity window has passed.
func (c Credential) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsActive reports whether the credential is currently valid: unrevoked and
// unexpired.
func (c Credential) IsActive(now time.Time) bool {
	return !c.IsRevoked() && !c.IsExpired(now)
}

// RequirementDiagnostic summarizes one tier requirement for a not-eligible
// response so callers can diagnose the gap.
type RequirementDiagnostic struct {
	Tier     Tier                      `json:"tier"`
	Required []verificationmodels.Type `json:"required"`
}

// VerificationDiagnostic is one {type,status} pair from the contractor's
// current verification set.
type VerificationDiagnostic struct {
	Type   verificationmodels.Type   `json:"type"`
	Status verificationmodels.Status `json:"status"`
}

// NotEligibleError reports why issuance was refused. It rides inside a
// not_eligible domain error so the transport layer can render the diagnostic
// listing.
type NotEligibleError struct {
	Requirements []RequirementDiagnostic
	Current      []VerificationDiagnostic
}

func (e *NotEligibleError) Error() string {
	return "no tier requirement satisfied"
}

// NewNotEligibleError builds the diagnostic from the static requirement list
// and the contractor's verification records.
func NewNotEligibleError(verifications []*verificationmodels.Record) *NotEligibleError {
	diag := &NotEligibleError{}
	for _, requirement := range Requirements() {
		diag.Requirements = append(diag.Requirements, RequirementDiagnostic{
			Tier:     requirement.Tier,
			Required: requirement.Required,
		})
	}
	for _, record := range verifications {
		diag.Current = append(diag.Current, VerificationDiagnostic{
			Type:   record.Type,
			Status: record.Status,
		})
	}
	return diag
}
