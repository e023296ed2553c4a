package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"passport/internal/contractor/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

// PostgresStore persists contractors in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contractor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, contractor *models.Contractor) error {
	query := `
		INSERT INTO contractors (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	var storedID uuid.UUID
	err := s.db.QueryRowContext(ctx, query,
		uuid.UUID(contractor.ID),
		contractor.Name,
		contractor.Email,
		contractor.CreatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save contractor: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, contractorID id.ContractorID) (*models.Contractor, error) {
	query := `
		SELECT id, name, email, created_at
		FROM contractors
		WHERE id = $1
	`
	return scanContractor(s.db.QueryRowContext(ctx, query, uuid.UUID(contractorID)))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Contractor, error) {
	query := `
		SELECT id, name, email, created_at
		FROM contractors
		WHERE email = $1
	`
	return scanContractor(s.db.QueryRowContext(ctx, query, email))
}

func scanContractor(row *sql.Row) (*models.Contractor, error) {
	var record models.Contractor
	var rawID uuid.UUID
	if err := row.Scan(&rawID, &record.Name, &record.Email, &record.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan contractor: %w", err)
	}
	record.ID = id.ContractorID(rawID)
	return &record, nil
}
