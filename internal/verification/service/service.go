package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"passport/internal/audit"
	contractormodels "passport/internal/contractor/models"
	"passport/internal/events"
	"passport/internal/platform/metrics"
	"passport/internal/sentinel"
	"passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ContractorSource

// Store defines the persistence interface for verification records.
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, verificationID id.VerificationID) (*models.Record, error)
	Update(ctx context.Context, record *models.Record) error
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Record, error)
}

// ContractorSource checks contractor existence before attaching records.
type ContractorSource interface {
	FindByID(ctx context.Context, contractorID id.ContractorID) (*contractormodels.Contractor, error)
}

// Service owns the verification record lifecycle: create as pending, complete
// to a terminal status, amend terminal records as an explicit correction.
type Service struct {
	store       Store
	contractors ContractorSource
	auditor     *audit.Publisher
	events      *events.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
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
	auditor *audit.Publisher,
	publisher *events.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		store:       store,
		contractors: contractors,
		auditor:     auditor,
		events:      publisher,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create records a new pending verification attempt for the contractor.
func (s *Service) Create(ctx context.Context, contractorID id.ContractorID, vType models.Type, provider string, payload models.Payload) (*models.Record, error) {
	if _, err := s.contractors.FindByID(ctx, contractorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contractor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contractor")
	}

	record, err := models.New(id.NewVerificationID(), contractorID, vType, provider, payload, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification")
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: contractorID.String(),
		Action:       audit.ActionVerificationCreated,
		Metadata: map[string]any{
			"verification_id":   record.ID.String(),
			"verification_type": string(record.Type),
		},
	})
	if s.metrics != nil {
		s.metrics.VerificationsCreated.WithLabelValues(string(vType)).Inc()
	}

	return record, nil
}

// Complete transitions a pending verification to verified or failed.
func (s *Service) Complete(ctx context.Context, verificationID id.VerificationID, status models.Status, payload models.Payload) (*models.Record, error) {
	record, err := s.load(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	previous := record.Status
	if err := record.Complete(status, payload, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification")
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: record.ContractorID.String(),
		Action:       audit.ActionVerificationUpdated,
		Metadata: map[string]any{
			"verification_id": record.ID.String(),
			"old_status":      string(previous),
			"new_status":      string(record.Status),
		},
	})
	s.events.VerificationCompleted(
		record.ContractorID.String(),
		record.ID.String(),
		string(record.Type),
		string(record.Status),
		record.Provider,
	)
	if s.metrics != nil {
		s.metrics.VerificationsCompleted.WithLabelValues(string(record.Type), string(record.Status)).Inc()
	}

	return record, nil
}

// Amend re-transitions a verification that already reached a terminal
// status. This is the explicit manual-correction path; pending records are
// rejected so Complete stays the only way out of pending.
func (s *Service) Amend(ctx context.Context, verificationID id.VerificationID, status models.Status, payload models.Payload, actor string) (*models.Record, error) {
	record, err := s.load(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	previous := record.Status
	if err := record.Amend(status, payload, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification")
	}

	s.emitAudit(ctx, audit.Event{
		ContractorID: record.ContractorID.String(),
		Action:       audit.ActionVerificationAmended,
		Actor:        actor,
		Metadata: map[string]any{
			"verification_id": record.ID.String(),
			"old_status":      string(previous),
			"new_status":      string(record.Status),
		},
	})
	if s.metrics != nil {
		s.metrics.VerificationsCompleted.WithLabelValues(string(record.Type), string(record.Status)).Inc()
	}

	return record, nil
}

// Get loads a single verification record.
func (s *Service) Get(ctx context.Context, verificationID id.VerificationID) (*models.Record, error) {
	return s.load(ctx, verificationID)
}

// ListByContractor returns all verification records owned by the contractor.
func (s *Service) ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Record, error) {
	records, err := s.store.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}
	return records, nil
}

func (s *Service) load(ctx context.Context, verificationID id.VerificationID) (*models.Record, error) {
	record, err := s.store.FindByID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification")
	}
	return record, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
