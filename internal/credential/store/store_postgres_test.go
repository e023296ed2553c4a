package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/credential/models"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func credentialRows(credential *models.Credential) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "contractor_id", "tier", "token", "issued_at", "expires_at", "revoked_at"}).
		AddRow(uuid.UUID(credential.ID), uuid.UUID(credential.ContractorID), string(credential.Tier),
			credential.Token, credential.IssuedAt, credential.ExpiresAt, credential.RevokedAt)
}

func TestPostgresCreateInsertsWhenNoActive(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	credential := newCredential(id.NewContractorID(), now, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contractors WHERE id = \$1 FOR UPDATE`).
		WithArgs(uuid.UUID(credential.ContractorID)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.UUID(credential.ContractorID)))
	mock.ExpectQuery(`SELECT (.+) FROM credentials`).
		WithArgs(uuid.UUID(credential.ContractorID), now).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs(uuid.UUID(credential.ID), uuid.UUID(credential.ContractorID), string(credential.Tier),
			credential.Token, credential.IssuedAt, credential.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, created, err := store.Create(context.Background(), credential, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, credential.ID, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateReturnsExistingActive(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	contractorID := id.NewContractorID()
	existing := newCredential(contractorID, now.Add(-time.Hour), 1)
	attempt := newCredential(contractorID, now, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contractors WHERE id = \$1 FOR UPDATE`).
		WithArgs(uuid.UUID(contractorID)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.UUID(contractorID)))
	mock.ExpectQuery(`SELECT (.+) FROM credentials`).
		WithArgs(uuid.UUID(contractorID), now).
		WillReturnRows(credentialRows(existing))
	mock.ExpectRollback()

	stored, created, err := store.Create(context.Background(), attempt, now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateUnknownContractor(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	credential := newCredential(id.NewContractorID(), now, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contractors WHERE id = \$1 FOR UPDATE`).
		WithArgs(uuid.UUID(credential.ContractorID)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := store.Create(context.Background(), credential, now)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	credentialID := id.NewCredentialID()

	mock.ExpectQuery(`SELECT (.+) FROM credentials WHERE id = \$1`).
		WithArgs(uuid.UUID(credentialID)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), credentialID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRevoke(t *testing.T) {
	store, mock := newMockStore(t)
	credentialID := id.NewCredentialID()
	revokedAt := time.Now()

	mock.ExpectExec(`UPDATE credentials SET revoked_at = \$2 WHERE id = \$1 AND revoked_at IS NULL`).
		WithArgs(uuid.UUID(credentialID), revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Revoke(context.Background(), credentialID, revokedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRevokeAlreadyRevoked(t *testing.T) {
	store, mock := newMockStore(t)
	credentialID := id.NewCredentialID()
	revokedAt := time.Now()

	mock.ExpectExec(`UPDATE credentials SET revoked_at = \$2 WHERE id = \$1 AND revoked_at IS NULL`).
		WithArgs(uuid.UUID(credentialID), revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uuid.UUID(credentialID)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := store.Revoke(context.Background(), credentialID, revokedAt)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRevokeUnknown(t *testing.T) {
	store, mock := newMockStore(t)
	credentialID := id.NewCredentialID()
	revokedAt := time.Now()

	mock.ExpectExec(`UPDATE credentials SET revoked_at = \$2 WHERE id = \$1 AND revoked_at IS NULL`).
		WithArgs(uuid.UUID(credentialID), revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uuid.UUID(credentialID)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := store.Revoke(context.Background(), credentialID, revokedAt)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
