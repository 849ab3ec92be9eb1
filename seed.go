package userstream

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// EnsureSchema creates the user table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS ` + DefaultTable + ` (
		user_id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		age INT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", storeError(err))
	}
	return nil
}

// ImportCSV loads rows from a CSV file with header user_id,name,email,age
// into the user table, inserting only rows whose user_id is not already
// present. Rows without a user_id are assigned a generated UUID. Invalid
// rows are skipped with a warning. Returns the number of rows inserted.
func ImportCSV(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, storeError(err)
	}
	defer f.Close()

	records, err := decodeCSV(f, true, slog.Default())
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, storeError(err))
	}
	defer tx.Rollback()

	const insert = `INSERT INTO ` + DefaultTable + ` (user_id, name, email, age)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE user_id = user_id`

	inserted := 0
	for _, rec := range records {
		res, err := tx.ExecContext(ctx, insert, rec.UserID, rec.Name, rec.Email, rec.Age)
		if err != nil {
			return 0, fmt.Errorf("import %s: insert %s: %w", path, rec.UserID, storeError(err))
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import %s: %w", path, storeError(err))
	}
	return inserted, nil
}

// newUserID generates an identifier for rows imported without one.
func newUserID() string {
	return uuid.NewString()
}
