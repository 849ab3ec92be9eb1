package userstream_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/userstream"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_data").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, userstream.EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCSV_InsertsNewRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeCSV(t, `user_id,name,email,age
u1,Alice,alice@example.com,28
u2,Bob,bob@example.com,34
`)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO user_data").
		WithArgs("u1", "Alice", "alice@example.com", 28).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_data").
		WithArgs("u2", "Bob", "bob@example.com", 34).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, err := userstream.ImportCSV(context.Background(), db, path)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCSV_SkipsDuplicatesAndAssignsIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeCSV(t, `user_id,name,email,age
u1,Alice,alice@example.com,28
,NoID,noid@example.com,30
`)

	mock.ExpectBegin()
	// Already present: ON DUPLICATE KEY UPDATE reports zero affected rows.
	mock.ExpectExec("INSERT INTO user_data").
		WithArgs("u1", "Alice", "alice@example.com", 28).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The row without a user_id gets a generated one.
	mock.ExpectExec("INSERT INTO user_data").
		WithArgs(sqlmock.AnyArg(), "NoID", "noid@example.com", 30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, err := userstream.ImportCSV(context.Background(), db, path)
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCSV_InsertErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeCSV(t, `user_id,name,email,age
u1,Alice,alice@example.com,28
`)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO user_data").
		WithArgs("u1", "Alice", "alice@example.com", 28).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	_, err = userstream.ImportCSV(context.Background(), db, path)
	require.ErrorIs(t, err, userstream.ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
