// Package events logs key business events as structured records so they can
// be exported to analytics systems for dashboards.
package events

import (
	"log/slog"
	"time"
)

// Publisher writes business events through the structured logger.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// OnboardingCompleted records a successfully onboarded contractor.
func (p *Publisher) OnboardingCompleted(contractorID, email, source string) {
	if source == "" {
		source = "web"
	}
	p.logger.Info("business event",
		"event", "onboarding_completed",
		"contractor_id", contractorID,
		"email", email,
		"source", source,
	)
}

// CredentialIssued records a freshly minted credential.
func (p *Publisher) CredentialIssued(contractorID, credentialID, tier string, expiresAt time.Time, verificationsCount int) {
	p.logger.Info("business event",
		"event", "credential_issued",
		"contractor_id", contractorID,
		"credential_id", credentialID,
		"tier", tier,
		"expires_at", expiresAt.UTC().Format(time.RFC3339),
		"verifications_count", verificationsCount,
	)
}

// CredentialRevoked records a revocation.
func (p *Publisher) CredentialRevoked(contractorID, credentialID, reason, revokedBy string) {
	p.logger.Info("business event",
		"event", "credential_revoked",
		"contractor_id", contractorID,
		"credential_id", credentialID,
		"reason", reason,
		"revoked_by", revokedBy,
	)
}

// VerificationCompleted records a verification reaching a terminal status.
func (p *Publisher) VerificationCompleted(contractorID, verificationID, vType, status, provider string) {
	p.logger.Info("business event",
		"event", "verification_completed",
		"contractor_id", contractorID,
		"verification_id", verificationID,
		"type", vType,
		"status", status,
		"provider", provider,
	)
}
