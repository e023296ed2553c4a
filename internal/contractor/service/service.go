package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"passport/internal/audit"
	"passport/internal/contractor/models"
	credentialmodels "passport/internal/credential/models"
	"passport/internal/events"
	"passport/internal/platform/metrics"
	"passport/internal/sentinel"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Store defines the persistence interface for contractors.
type Store interface {
	Save(ctx context.Context, contractor *models.Contractor) error
	FindByID(ctx context.Context, contractorID id.ContractorID) (*models.Contractor, error)
	FindByEmail(ctx context.Context, email string) (*models.Contractor, error)
}

// VerificationSource lists a contractor's verification records for the
// profile view.
type VerificationSource interface {
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*verificationmodels.Record, error)
}

// CredentialSource lists a contractor's credential records for the profile view.
type CredentialSource interface {
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*credentialmodels.Credential, error)
}

// Profile is the aggregate view of a contractor with owned records.
type Profile struct {
	Contractor    *models.Contractor
	Verifications []*verificationmodels.Record
	Credentials   []*credentialmodels.Credential
}

// Service owns contractor onboarding and lookups.
type Service struct {
	store         Store
	verifications VerificationSource
	credentials   CredentialSource
	auditor       *audit.Publisher
	events        *events.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time
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
	verifications VerificationSource,
	credentials CredentialSource,
	auditor *audit.Publisher,
	publisher *events.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		store:         store,
		verifications: verifications,
		credentials:   credentials,
		auditor:       auditor,
		events:        publisher,
		logger:        logger,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Onboard registers a new contractor. When the email is already registered
// the existing contractor is returned with created=false so the transport
// layer can answer 409 with the existing id.
func (s *Service) Onboard(ctx context.Context, name, email string) (*models.Contractor, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	contractor, err := models.New(id.NewContractorID(), strings.TrimSpace(name), email, s.now())
	if err != nil {
		return nil, false, err
	}

	if err := s.store.Save(ctx, contractor); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			existing, findErr := s.store.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to load existing contractor")
			}
			return existing, false, nil
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contractor")
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		ContractorID: contractor.ID.String(),
		Action:       audit.ActionContractorOnboarded,
		Metadata:     map[string]any{"source": "web"},
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", audit.ActionContractorOnboarded,
			"error", err,
		)
	}
	s.events.OnboardingCompleted(contractor.ID.String(), contractor.Email, "web")
	if s.metrics != nil {
		s.metrics.ContractorsOnboarded.Inc()
	}

	return contractor, true, nil
}

// Get loads a single contractor.
func (s *Service) Get(ctx context.Context, contractorID id.ContractorID) (*models.Contractor, error) {
	contractor, err := s.store.FindByID(ctx, contractorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contractor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contractor")
	}
	return contractor, nil
}

// GetProfile loads a contractor together with its verifications and credentials.
func (s *Service) GetProfile(ctx context.Context, contractorID id.ContractorID) (*Profile, error) {
	contractor, err := s.Get(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	verifications, err := s.verifications.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verifications")
	}
	credentials, err := s.credentials.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credentials")
	}

	return &Profile{
		Contractor:    contractor,
		Verifications: verifications,
		Credentials:   credentials,
	}, nil
}
