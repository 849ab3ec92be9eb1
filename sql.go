package userstream

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"net"

	"github.com/go-sql-driver/mysql"
)

// DefaultTable is the user table name used when none is configured.
const DefaultTable = "user_data"

// DBConfig holds the connection parameters for a MySQL-backed store.
// When read through goconfig as a nested struct named DB, the fields map to
// the DB_HOST, DB_USER, DB_PASSWORD and DB_NAME environment variables.
type DBConfig struct {
	Host     string `usage:"database host (host or host:port)"`
	User     string `usage:"database user"`
	Password string `usage:"database password"`
	Name     string `usage:"database name"`
}

// DSN renders the config as a go-sql-driver DSN.
func (c DBConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	if _, _, err := net.SplitHostPort(c.Host); err != nil {
		// No port (or a bare IPv6 literal): attach the MySQL default.
		cfg.Addr = net.JoinHostPort(c.Host, "3306")
	}
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Name
	return cfg.FormatDSN()
}

// OpenMySQL opens and pings a MySQL connection. Failures wrap
// ErrStoreUnavailable. The caller owns the returned handle.
func OpenMySQL(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, storeError(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeError(err)
	}
	return db, nil
}

// SQLSource reads the user table through database/sql. Windows are fetched
// with ORDER BY user_id LIMIT/OFFSET; Stream walks a live cursor row by row.
type SQLSource struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// NewSQLSource creates a source over db. The source does not own the handle
// unless Close is called.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{
		db:     db,
		table:  DefaultTable,
		logger: slog.Default(),
	}
}

// WithTable overrides the table name. Empty values are ignored.
func (s *SQLSource) WithTable(name string) *SQLSource {
	if name != "" {
		s.table = name
	}
	return s
}

// WithLogger overrides the logger used for invalid-row warnings.
// Nil values are ignored.
func (s *SQLSource) WithLogger(logger *slog.Logger) *SQLSource {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Close closes the underlying database handle. Only call it when the source
// is the sole owner, e.g. when opened per scan by FetchConcurrently.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// FetchWindow returns the valid records among the next limit raw rows at
// offset, ordered by primary key. Rows that fail to scan or validate are
// skipped with a warning but still count toward the raw total, so exhaustion
// is decided by what the table holds, not by what survived validation.
func (s *SQLSource) FetchWindow(ctx context.Context, limit, offset int) ([]Record, int, error) {
	if limit <= 0 {
		return nil, 0, nil
	}

	query := fmt.Sprintf("SELECT user_id, name, email, age FROM %s ORDER BY user_id LIMIT ? OFFSET ?", s.table)
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch window: %w", storeError(err))
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	raw := 0
	for rows.Next() {
		raw++
		rec, err := s.scanRecord(rows)
		if err != nil {
			s.logger.Warn("skipping invalid row", "table", s.table, "error", err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("fetch window: %w", storeError(err))
	}
	return out, raw, nil
}

// Stream yields records one at a time from a live cursor. The cursor is
// released on every exit path, including an early break by the caller.
func (s *SQLSource) Stream(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		query := fmt.Sprintf("SELECT user_id, name, email, age FROM %s ORDER BY user_id", s.table)
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			yield(Record{}, fmt.Errorf("stream: %w", storeError(err)))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := s.scanRecord(rows)
			if err != nil {
				s.logger.Warn("skipping invalid row", "table", s.table, "error", err)
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Record{}, fmt.Errorf("stream: %w", storeError(err)))
		}
	}
}

// scanRecord scans and validates one row. Scan failures and validation
// failures are both reported as *InvalidRecordError so the caller treats
// them uniformly: warn and skip.
func (s *SQLSource) scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	if err := rows.Scan(&rec.UserID, &rec.Name, &rec.Email, &rec.Age); err != nil {
		return Record{}, &InvalidRecordError{Field: "row", Reason: err.Error()}
	}
	if err := rec.validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
