package oauth

import (
	"context"
	"log/slog"

	"passport/internal/audit"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Verifications is the slice of the verification service the OAuth flow
// drives. Completing through the service keeps audit, events, and metrics
// emission in one place.
type Verifications interface {
	Get(ctx context.Context, verificationID id.VerificationID) (*verificationmodels.Record, error)
	Complete(ctx context.Context, verificationID id.VerificationID, status verificationmodels.Status, payload verificationmodels.Payload) (*verificationmodels.Record, error)
}

// CallbackResult tells the handler where to send the user and how the flow
// ended.
type CallbackResult struct {
	ReturnTo string
	Verified bool
	Reason   string
}

// Service runs the OAuth verification flow for all configured providers.
type Service struct {
	codec         *StateCodec
	providers     map[string]Exchanger
	verifications Verifications
	auditor       *audit.Publisher
	logger        *slog.Logger
}

func NewService(
	codec *StateCodec,
	verifications Verifications,
	auditor *audit.Publisher,
	logger *slog.Logger,
	exchangers ...Exchanger,
) *Service {
	providers := make(map[string]Exchanger, len(exchangers))
	for _, exchanger := range exchangers {
		providers[exchanger.Name()] = exchanger
	}
	return &Service{
		codec:         codec,
		providers:     providers,
		verifications: verifications,
		auditor:       auditor,
		logger:        logger,
	}
}

// Start validates the flow preconditions and returns the provider authorize
// URL carrying the signed state. The verification must be pending, owned by
// the contractor, and of the type the provider verifies.
func (s *Service) Start(ctx context.Context, providerName string, contractorID id.ContractorID, verificationID id.VerificationID, returnTo string) (string, error) {
	exchanger, ok := s.providers[providerName]
	if !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported oauth provider")
	}

	record, err := s.verifications.Get(ctx, verificationID)
	if err != nil {
		return "", err
	}
	if err := s.checkBinding(record, contractorID, providerName); err != nil {
		return "", err
	}

	stateToken, err := s.codec.Encode(State{
		ContractorID:   contractorID,
		VerificationID: verificationID,
		Provider:       providerName,
		ReturnTo:       returnTo,
	})
	if err != nil {
		return "", err
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: contractorID.String(),
		Action:       startedAction(providerName),
		Metadata: map[string]any{
			"verification_id": verificationID.String(),
		},
	})
	return exchanger.AuthorizeURL(stateToken), nil
}

// Callback consumes the provider redirect. Exchange failures and provider
// rules that don't hold mark the verification failed rather than leaving it
// pending forever.
func (s *Service) Callback(ctx context.Context, providerName, code, stateToken string) (*CallbackResult, error) {
	exchanger, ok := s.providers[providerName]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unsupported oauth provider")
	}

	state, err := s.codec.Decode(stateToken)
	if err != nil {
		return nil, err
	}
	if state.Provider != providerName {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "oauth state bound to a different provider")
	}

	record, err := s.verifications.Get(ctx, state.VerificationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBinding(record, state.ContractorID, providerName); err != nil {
		return nil, err
	}

	identity, err := exchanger.Exchange(ctx, code)
	if err != nil {
		s.logger.WarnContext(ctx, "oauth exchange failed",
			"provider", providerName,
			"verification_id", state.VerificationID.String(),
			"error", err,
		)
		return s.fail(ctx, state, err.Error())
	}

	payload := verificationmodels.Payload{
		"provider_user_id": identity.ProviderUserID,
		"email":            identity.Email,
		"email_verified":   identity.EmailVerified,
		"name":             identity.Name,
	}
	for key, value := range identity.Profile {
		payload[key] = value
	}

	if _, err := s.verifications.Complete(ctx, state.VerificationID, verificationmodels.StatusVerified, payload); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: state.ContractorID.String(),
		Action:       verifiedAction(providerName),
		Metadata: map[string]any{
			"verification_id":  state.VerificationID.String(),
			"provider_user_id": identity.ProviderUserID,
		},
	})
	return &CallbackResult{ReturnTo: state.ReturnTo, Verified: true}, nil
}

func (s *Service) fail(ctx context.Context, state *State, reason string) (*CallbackResult, error) {
	payload := verificationmodels.Payload{"error": reason}
	if _, err := s.verifications.Complete(ctx, state.VerificationID, verificationmodels.StatusFailed, payload); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: state.ContractorID.String(),
		Action:       failedAction(state.Provider),
		Metadata: map[string]any{
			"verification_id": state.VerificationID.String(),
			"reason":          reason,
		},
	})
	return &CallbackResult{ReturnTo: state.ReturnTo, Verified: false, Reason: reason}, nil
}

func (s *Service) checkBinding(record *verificationmodels.Record, contractorID id.ContractorID, providerName string) error {
	if record.ContractorID != contractorID {
		return dErrors.New(dErrors.CodeBadRequest, "verification does not belong to this contractor")
	}
	if record.Status != verificationmodels.StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, "verification already completed")
	}
	if string(record.Type) != providerName {
		return dErrors.New(dErrors.CodeBadRequest, "verification type does not match provider")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func startedAction(provider string) string {
	if provider == ProviderLinkedIn {
		return audit.ActionOAuthLinkedInStarted
	}
	return audit.ActionOAuthGitHubStarted
}

func verifiedAction(provider string) string {
	if provider == ProviderLinkedIn {
		return audit.ActionOAuthLinkedInVerified
	}
	return audit.ActionOAuthGitHubVerified
}

func failedAction(provider string) string {
	if provider == ProviderLinkedIn {
		return audit.ActionOAuthLinkedInFailed
	}
	return audit.ActionOAuthGitHubFailed
}
