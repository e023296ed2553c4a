package audit

import "time"

// Event is emitted from domain logic to capture each state-changing action.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	ContractorID string
	Action       string
	Actor        string
	Metadata     map[string]any
}

// Actions recorded by the services. One logical audit fact per
// state-changing operation.
const (
	ActionContractorOnboarded   = "contractor_onboarded"
	ActionVerificationCreated   = "verification_created"
	ActionVerificationUpdated   = "verification_updated"
	ActionVerificationAmended   = "verification_amended"
	ActionCredentialIssued      = "credential_issued"
	ActionCredentialRevoked     = "credential_revoked"
	ActionOAuthGitHubStarted    = "oauth_github_started"
	ActionOAuthGitHubVerified   = "oauth_github_verified"
	ActionOAuthGitHubFailed     = "oauth_github_failed"
	ActionOAuthLinkedInStarted  = "oauth_linkedin_started"
	ActionOAuthLinkedInVerified = "oauth_linkedin_verified"
	ActionOAuthLinkedInFailed   = "oauth_linkedin_failed"
)

// ActorSystem is the default actor when no explicit actor is supplied.
const ActorSystem = "system"
