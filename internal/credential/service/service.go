// Package service implements the credential lifecycle: eligibility-gated
// issuance, verification verdicts, one-shot revocation, and status reads.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"passport/internal/audit"
	contractormodels "passport/internal/contractor/models"
	"passport/internal/credential/eligibility"
	"passport/internal/credential/models"
	"passport/internal/credential/token"
	"passport/internal/events"
	"passport/internal/platform/metrics"
	"passport/internal/sentinel"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ContractorSource,VerificationSource

// Store defines the persistence interface for credentials.
type Store interface {
	Create(ctx context.Context, credential *models.Credential, now time.Time) (*models.Credential, bool, error)
	FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	FindActiveByContractor(ctx context.Context, contractorID id.ContractorID, now time.Time) (*models.Credential, error)
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Credential, error)
	Revoke(ctx context.Context, credentialID id.CredentialID, revokedAt time.Time) error
}

// ContractorSource resolves contractors for issuance and verdict rendering.
type ContractorSource interface {
	FindByID(ctx context.Context, contractorID id.ContractorID) (*contractormodels.Contractor, error)
}

// VerificationSource lists the contractor's verification records, which are
// the evidence both issuance and verification verdicts are computed from.
type VerificationSource interface {
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*verificationmodels.Record, error)
}

// IssueResult is a credential plus whether it was freshly minted. Reused
// means the contractor already held an active credential and that one was
// returned instead.
type IssueResult struct {
	Credential *models.Credential
	Reused     bool
}

// Verdict is the outcome of checking a credential. Invalid verdicts carry the
// reason; valid verdicts carry the contractor, the live verified records, and
// the decoded token claims.
type Verdict struct {
	Valid          bool
	Reason         string
	Credential     *models.Credential
	ContractorName string
	Verifications  []*verificationmodels.Record
	Claims         *token.Claims
}

// StatusView is the point-in-time state of a credential.
type StatusView struct {
	Credential *models.Credential
	Expired    bool
	Revoked    bool
	Valid      bool
}

// Service owns the credential lifecycle.
type Service struct {
	store         Store
	contractors   ContractorSource
	verifications VerificationSource
	signer        *token.Signer
	auditor       *audit.Publisher
	events        *events.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	tracer        trace.Tracer
	now           func() time.Time

	// issuance collapses concurrent issue calls for the same contractor
	// before they reach the store's atomic create.
	issuance singleflight.Group
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	store Store,
	contractors ContractorSource,
	verifications VerificationSource,
	signer *token.Signer,
	auditor *audit.Publisher,
	publisher *events.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		store:         store,
		contractors:   contractors,
		verifications: verifications,
		signer:        signer,
		auditor:       auditor,
		events:        publisher,
		logger:        logger,
		tracer:        otel.Tracer("passport/credential"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Issue grants the highest tier the contractor's verified records satisfy.
// If an active credential already exists it is returned unchanged with
// Reused set; exactly one credential per contractor can be active at a time,
// even under concurrent requests.
func (s *Service) Issue(ctx context.Context, contractorID id.ContractorID) (*IssueResult, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Issue",
		trace.WithAttributes(attribute.String("contractor.id", contractorID.String())))
	defer span.End()

	if _, err := s.contractors.FindByID(ctx, contractorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contractor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contractor")
	}

	result, err, _ := s.issuance.Do(contractorID.String(), func() (any, error) {
		return s.issue(ctx, contractorID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*IssueResult), nil
}

func (s *Service) issue(ctx context.Context, contractorID id.ContractorID) (*IssueResult, error) {
	now := s.now()

	existing, err := s.store.FindActiveByContractor(ctx, contractorID, now)
	if err == nil {
		if s.metrics != nil {
			s.metrics.CredentialsReused.Inc()
		}
		return &IssueResult{Credential: existing, Reused: true}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check active credential")
	}

	records, err := s.verifications.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}

	requirement := eligibility.Evaluate(records)
	if requirement == nil {
		if s.metrics != nil {
			s.metrics.IssuanceRejected.Inc()
		}
		return nil, &dErrors.Error{
			Code:    dErrors.CodeNotEligible,
			Message: "contractor does not meet requirements for any credential tier",
			Err:     models.NewNotEligibleError(records),
		}
	}

	verified := verifiedOnly(records)
	expiresAt := now.AddDate(0, 0, requirement.ExpiryDays)

	credentialID := id.NewCredentialID()
	signed, err := s.signer.Mint(contractorID, requirement.Tier.String(), verified, now, expiresAt)
	if err != nil {
		return nil, err
	}

	credential := &models.Credential{
		ID:           credentialID,
		ContractorID: contractorID,
		Tier:         requirement.Tier,
		Token:        signed,
		IssuedAt:     now,
		ExpiresAt:    expiresAt,
	}

	stored, created, err := s.store.Create(ctx, credential, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credential")
	}
	if !created {
		// A concurrent issuance won the store-level race.
		if s.metrics != nil {
			s.metrics.CredentialsReused.Inc()
		}
		return &IssueResult{Credential: stored, Reused: true}, nil
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: contractorID.String(),
		Action:       audit.ActionCredentialIssued,
		Metadata: map[string]any{
			"credential_id": stored.ID.String(),
			"tier":          stored.Tier.String(),
			"expires_at":    stored.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
	s.events.CredentialIssued(contractorID.String(), stored.ID.String(), stored.Tier.String(), stored.ExpiresAt, len(verified))
	if s.metrics != nil {
		s.metrics.CredentialsIssued.WithLabelValues(stored.Tier.String()).Inc()
	}

	return &IssueResult{Credential: stored, Reused: false}, nil
}

// Verify renders a verdict for the credential. Checks run in order: revoked,
// expired, then token signature. The stored record is authoritative for
// expiry and revocation; the verified records attached to a valid verdict
// are read live, not from the token snapshot.
func (s *Service) Verify(ctx context.Context, credentialID id.CredentialID) (*Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Verify",
		trace.WithAttributes(attribute.String("credential.id", credentialID.String())))
	defer span.End()

	credential, err := s.load(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	verdict := func(reason string) *Verdict {
		if s.metrics != nil {
			s.metrics.VerifyVerdicts.WithLabelValues(reason).Inc()
		}
		return &Verdict{Valid: false, Reason: reason, Credential: credential}
	}

	if credential.IsRevoked() {
		return verdict("revoked"), nil
	}
	if credential.IsExpired(s.now()) {
		return verdict("expired"), nil
	}

	claims, err := s.signer.Verify(credential.Token)
	if err != nil {
		s.logger.WarnContext(ctx, "credential token failed signature check",
			"credential_id", credentialID.String(),
			"error", err,
		)
		return verdict("invalid_signature"), nil
	}

	contractor, err := s.contractors.FindByID(ctx, credential.ContractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contractor")
	}
	records, err := s.verifications.ListByContractor(ctx, credential.ContractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}

	if s.metrics != nil {
		s.metrics.VerifyVerdicts.WithLabelValues("valid").Inc()
	}
	return &Verdict{
		Valid:          true,
		Credential:     credential,
		ContractorName: contractor.Name,
		Verifications:  verifiedOnly(records),
		Claims:         claims,
	}, nil
}

// Revoke permanently invalidates a credential. Revocation is one-shot: a
// second attempt fails with already_revoked and the original timestamp.
func (s *Service) Revoke(ctx context.Context, credentialID id.CredentialID, reason, actor string) (*models.Credential, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Revoke",
		trace.WithAttributes(attribute.String("credential.id", credentialID.String())))
	defer span.End()

	if reason == "" {
		reason = "No reason provided"
	}
	if actor == "" {
		actor = audit.ActorSystem
	}

	credential, err := s.load(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if credential.IsRevoked() {
		return nil, alreadyRevoked(credential)
	}

	revokedAt := s.now()
	if err := s.store.Revoke(ctx, credentialID, revokedAt); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			// Lost a concurrent revocation race; report the winner's stamp.
			if current, loadErr := s.load(ctx, credentialID); loadErr == nil {
				return nil, alreadyRevoked(current)
			}
			return nil, alreadyRevoked(credential)
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke credential")
		}
	}
	credential.RevokedAt = &revokedAt

	s.emitAudit(ctx, audit.Event{
		ContractorID: credential.ContractorID.String(),
		Action:       audit.ActionCredentialRevoked,
		Actor:        actor,
		Metadata: map[string]any{
			"credential_id": credential.ID.String(),
			"reason":        reason,
		},
	})
	s.events.CredentialRevoked(credential.ContractorID.String(), credential.ID.String(), reason, actor)
	if s.metrics != nil {
		s.metrics.CredentialsRevoked.Inc()
	}

	return credential, nil
}

// Status reports the credential's current state without rendering a full
// verdict.
func (s *Service) Status(ctx context.Context, credentialID id.CredentialID) (*StatusView, error) {
	credential, err := s.load(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &StatusView{
		Credential: credential,
		Expired:    credential.IsExpired(now),
		Revoked:    credential.IsRevoked(),
		Valid:      credential.IsActive(now),
	}, nil
}

func (s *Service) load(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	credential, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return credential, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func alreadyRevoked(credential *models.Credential) error {
	return dErrors.New(dErrors.CodeAlreadyRevoked,
		fmt.Sprintf("credential was already revoked at %s", credential.RevokedAt.UTC().Format(time.RFC3339)))
}

func verifiedOnly(records []*verificationmodels.Record) []*verificationmodels.Record {
	verified := make([]*verificationmodels.Record, 0, len(records))
	for _, record := range records {
		if record.Status == verificationmodels.StatusVerified {
			verified = append(verified, record)
		}
	}
	return verified
}
