// Package eligibility maps a contractor's verification records to the
// highest satisfied tier requirement.
package eligibility

import (
	"passport/internal/credential/models"
	verificationmodels "passport/internal/verification/models"
)

// Evaluate returns the most privileged tier requirement satisfied by the
// given verification records, or nil if none is.
//
// Only verified records count. A tier is satisfied iff every required type is
// present in the verified set and every per-type minimum count is met. The
// static list is checked in descending privilege order and the first match
// wins: a contractor one reference short of FULL_CLEARANCE falls through and
// is granted PROVISIONAL if identity is verified. There is no partial-credit
// or scoring logic.
func Evaluate(verifications []*verificationmodels.Record) *models.TierRequirement {
	verifiedCounts := make(map[verificationmodels.Type]int)
	for _, record := range verifications {
		if record.Status == verificationmodels.StatusVerified {
			verifiedCounts[record.Type]++
		}
	}

	for _, requirement := range models.Requirements() {
		if satisfies(requirement, verifiedCounts) {
			met := requirement
			return &met
		}
	}
	return nil
}

func satisfies(requirement models.TierRequirement, verifiedCounts map[verificationmodels.Type]int) bool {
	for _, required := range requirement.Required {
		if verifiedCounts[required] == 0 {
			return false
		}
	}
	for vType, min := range requirement.MinVerifiedByType {
		if verifiedCounts[vType] < min {
			return false
		}
	}
	return true
}
