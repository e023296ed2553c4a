package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"passport/internal/sentinel"
	"passport/internal/verification/models"
	id "passport/pkg/domain"
)

// PostgresStore persists verification records in PostgreSQL. The provenance
// payload is stored as JSONB since its shape varies by provider.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal verification payload: %w", err)
	}
	query := `
		INSERT INTO verifications (id, contractor_id, type, status, provider, payload, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		uuid.UUID(record.ContractorID),
		string(record.Type),
		string(record.Status),
		record.Provider,
		payload,
		record.CreatedAt,
		record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save verification: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, verificationID id.VerificationID) (*models.Record, error) {
	query := `
		SELECT id, contractor_id, type, status, provider, payload, created_at, completed_at
		FROM verifications
		WHERE id = $1
	`
	record, err := scanVerification(s.db.QueryRowContext(ctx, query, uuid.UUID(verificationID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Update(ctx context.Context, record *models.Record) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal verification payload: %w", err)
	}
	query := `
		UPDATE verifications
		SET status = $2, payload = $3, completed_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		string(record.Status),
		payload,
		record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Record, error) {
	query := `
		SELECT id, contractor_id, type, status, provider, payload, created_at, completed_at
		FROM verifications
		WHERE contractor_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(contractorID))
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanVerification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verifications: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerification(row rowScanner) (*models.Record, error) {
	var record models.Record
	var rawID, rawContractorID uuid.UUID
	var vType, status string
	var payload []byte
	if err := row.Scan(&rawID, &rawContractorID, &vType, &status, &record.Provider, &payload, &record.CreatedAt, &record.CompletedAt); err != nil {
		return nil, err
	}
	record.ID = id.VerificationID(rawID)
	record.ContractorID = id.ContractorID(rawContractorID)
	record.Type = models.Type(vType)
	record.Status = models.Status(status)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return nil, fmt.Errorf("decode verification payload: %w", err)
		}
	}
	return &record, nil
}
