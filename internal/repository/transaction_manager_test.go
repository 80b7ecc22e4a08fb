package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTxTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	db, mock := setupTxTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quiz_attempts`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, db)
		_, err := executor.ExecContext(txCtx, `INSERT INTO quiz_attempts (id) VALUES (:1)`, "at1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := setupTxTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(txCtx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor_FallsBackToDB(t *testing.T) {
	db, _ := setupTxTestDB(t)
	defer db.Close()

	executor := GetExecutor(context.Background(), db)
	assert.Equal(t, DBTX(db), executor)
}
