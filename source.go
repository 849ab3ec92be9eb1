package userstream

import (
	"context"
	"io"
	"iter"
)

// Source produces ordered user records from a backing store. Implementations
// must return rows in a stable, deterministic order (primary key or insertion
// order) so that repeated full scans of the same data visit the same rows.
//
// Two implementations ship with the package:
//   - [MemorySource]: a fully materialized in-memory table (see [LoadCSV])
//   - [SQLSource]: a live database table queried with LIMIT/OFFSET windows
type Source interface {
	// FetchWindow returns the valid records among the next limit raw rows
	// starting at offset, together with the raw row count scanned. A raw
	// count lower than limit (including zero) signals exhaustion. Invalid
	// rows are skipped with a warning: they shrink the returned slice but
	// still count toward the raw total, so a window with malformed rows in
	// the middle of the table never reads as exhaustion.
	FetchWindow(ctx context.Context, limit, offset int) ([]Record, int, error)

	// Stream yields records one at a time. Implementations backed by a live
	// database cursor must not materialize the whole table, and must release
	// the cursor on every exit path, including an early break by the caller.
	Stream(ctx context.Context) iter.Seq2[Record, error]
}

// Sizer is an optional interface for sources that know their total row count
// without scanning. The reader and demo tooling detect it automatically.
type Sizer interface {
	// Total returns the number of rows currently in the source.
	Total() int
}

// closeSource closes src if it implements io.Closer. Sources that wrap a
// shared handle simply don't implement Closer.
func closeSource(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
