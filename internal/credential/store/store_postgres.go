package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"passport/internal/credential/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

// PostgresStore persists credentials in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const credentialColumns = "id, contractor_id, tier, token, issued_at, expires_at, revoked_at"

// Create serializes concurrent issuance per contractor by locking the
// contractor row for the duration of the check-then-insert.
func (s *PostgresStore) Create(ctx context.Context, credential *models.Credential, now time.Time) (*models.Credential, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin create credential: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	lockQuery := `SELECT id FROM contractors WHERE id = $1 FOR UPDATE`
	var lockedID uuid.UUID
	if err := tx.QueryRowContext(ctx, lockQuery, uuid.UUID(credential.ContractorID)).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, sentinel.ErrNotFound
		}
		return nil, false, fmt.Errorf("lock contractor: %w", err)
	}

	activeQuery := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE contractor_id = $1 AND revoked_at IS NULL AND expires_at > $2
		ORDER BY issued_at DESC
		LIMIT 1
	`
	existing, err := scanCredential(tx.QueryRowContext(ctx, activeQuery, uuid.UUID(credential.ContractorID), now))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find active credential: %w", err)
	}

	insertQuery := `
		INSERT INTO credentials (id, contractor_id, tier, token, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		uuid.UUID(credential.ID),
		uuid.UUID(credential.ContractorID),
		string(credential.Tier),
		credential.Token,
		credential.IssuedAt,
		credential.ExpiresAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert credential: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit create credential: %w", err)
	}
	return credential, true, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	credential, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(credentialID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return credential, nil
}

func (s *PostgresStore) FindActiveByContractor(ctx context.Context, contractorID id.ContractorID, now time.Time) (*models.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE contractor_id = $1 AND revoked_at IS NULL AND expires_at > $2
		ORDER BY issued_at DESC
		LIMIT 1
	`
	credential, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(contractorID), now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active credential: %w", err)
	}
	return credential, nil
}

func (s *PostgresStore) ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE contractor_id = $1
		ORDER BY issued_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(contractorID))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var credentials []*models.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return credentials, nil
}

// Revoke stamps the credential exactly once. The revoked_at guard makes the
// operation one-shot even under concurrent revocation attempts.
func (s *PostgresStore) Revoke(ctx context.Context, credentialID id.CredentialID, revokedAt time.Time) error {
	query := `UPDATE credentials SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(credentialID), revokedAt)
	if err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM credentials WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, checkQuery, uuid.UUID(credentialID)).Scan(&exists); err != nil {
		return fmt.Errorf("check credential: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var credential models.Credential
	var rawID, rawContractorID uuid.UUID
	var tier string
	if err := row.Scan(&rawID, &rawContractorID, &tier, &credential.Token, &credential.IssuedAt, &credential.ExpiresAt, &credential.RevokedAt); err != nil {
		return nil, err
	}
	credential.ID = id.CredentialID(rawID)
	credential.ContractorID = id.ContractorID(rawContractorID)
	credential.Tier = models.Tier(tier)
	return &credential, nil
}
