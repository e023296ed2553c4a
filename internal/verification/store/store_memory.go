package store

import (
	"context"
	"maps"
	"sync"

	"passport/internal/sentinel"
	"passport/internal/verification/models"
	id "passport/pkg/domain"
)

// InMemoryStore keeps verification records in memory for tests and local
// development. Records are returned as copies so callers cannot mutate
// stored state.
type InMemoryStore struct {
	mu           sync.RWMutex
	records      map[id.VerificationID]*models.Record
	byContractor map[id.ContractorID][]id.VerificationID
}

// NewInMemory constructs an empty in-memory verification store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records:      make(map[id.VerificationID]*models.Record),
		byContractor: make(map[id.ContractorID][]id.VerificationID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyRecord := copyOf(record)
	s.records[record.ID] = copyRecord
	s.byContractor[record.ContractorID] = append(s.byContractor[record.ContractorID], record.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, verificationID id.VerificationID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[verificationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyOf(record), nil
}

func (s *InMemoryStore) Update(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[record.ID] = copyOf(record)
	return nil
}

func (s *InMemoryStore) ListByContractor(_ context.Context, contractorID id.ContractorID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byContractor[contractorID]
	records := make([]*models.Record, 0, len(ids))
	for _, verificationID := range ids {
		records = append(records, copyOf(s.records[verificationID]))
	}
	return records, nil
}

func copyOf(record *models.Record) *models.Record {
	copyRecord := *record
	copyRecord.Payload = maps.Clone(record.Payload)
	if record.CompletedAt != nil {
		completedAt := *record.CompletedAt
		copyRecord.CompletedAt = &completedAt
	}
	return &copyRecord
}
