package store

import (
	"context"
	"sync"

	"passport/internal/contractor/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

// InMemoryStore keeps contractors in memory for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.ContractorID]*models.Contractor
	byEmail map[string]id.ContractorID
}

// NewInMemory constructs an empty in-memory contractor store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.ContractorID]*models.Contractor),
		byEmail: make(map[string]id.ContractorID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, contractor *models.Contractor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[contractor.Email]; ok {
		return sentinel.ErrConflict
	}
	copyRecord := *contractor
	s.byID[contractor.ID] = &copyRecord
	s.byEmail[contractor.Email] = contractor.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, contractorID id.ContractorID) (*models.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[contractorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contractorID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *s.byID[contractorID]
	return &copyRecord, nil
}
