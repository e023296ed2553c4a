package store

import (
	"context"
	"sync"
	"time"

	"passport/internal/credential/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

// InMemoryStore keeps credentials in memory for tests and local development.
// Credentials are returned as copies so callers cannot mutate stored state.
type InMemoryStore struct {
	mu           sync.RWMutex
	credentials  map[id.CredentialID]*models.Credential
	byContractor map[id.ContractorID][]id.CredentialID
}

// NewInMemory constructs an empty in-memory credential store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		credentials:  make(map[id.CredentialID]*models.Credential),
		byContractor: make(map[id.ContractorID][]id.CredentialID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, credential *models.Credential, now time.Time) (*models.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The scan and insert share one critical section, which is what makes
	// concurrent issuance single-winner.
	for _, credentialID := range s.byContractor[credential.ContractorID] {
		if existing := s.credentials[credentialID]; existing.IsActive(now) {
			return copyOf(existing), false, nil
		}
	}

	stored := copyOf(credential)
	s.credentials[credential.ID] = stored
	s.byContractor[credential.ContractorID] = append(s.byContractor[credential.ContractorID], credential.ID)
	return copyOf(stored), true, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyOf(credential), nil
}

func (s *InMemoryStore) FindActiveByContractor(_ context.Context, contractorID id.ContractorID, now time.Time) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, credentialID := range s.byContractor[contractorID] {
		if credential := s.credentials[credentialID]; credential.IsActive(now) {
			return copyOf(credential), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByContractor(_ context.Context, contractorID id.ContractorID) ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byContractor[contractorID]
	credentials := make([]*models.Credential, 0, len(ids))
	for _, credentialID := range ids {
		credentials = append(credentials, copyOf(s.credentials[credentialID]))
	}
	return credentials, nil
}

func (s *InMemoryStore) Revoke(_ context.Context, credentialID id.CredentialID, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[credentialID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if credential.RevokedAt != nil {
		return sentinel.ErrInvalidState
	}
	stamp := revokedAt
	credential.RevokedAt = &stamp
	return nil
}

func copyOf(credential *models.Credential) *models.Credential {
	copyCredential := *credential
	if credential.RevokedAt != nil {
		revokedAt := *credential.RevokedAt
		copyCredential.RevokedAt = &revokedAt
	}
	return &copyCredential
}
