package userstream

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
)

// MemorySource is a fully materialized, ordered in-memory table. Windows are
// index slices, so FetchWindow never fails and Stream never blocks.
type MemorySource struct {
	records []Record
}

var _ Sizer = (*MemorySource)(nil)

// NewMemorySource creates a source over the given records. The slice is
// copied; rows keep their insertion order.
func NewMemorySource(records []Record) *MemorySource {
	out := make([]Record, len(records))
	copy(out, records)
	return &MemorySource{records: out}
}

// Total returns the number of rows in the table.
func (s *MemorySource) Total() int { return len(s.records) }

// FetchWindow returns the records in [offset, offset+limit). Rows were
// validated at load time, so the raw count always equals the returned count.
func (s *MemorySource) FetchWindow(_ context.Context, limit, offset int) ([]Record, int, error) {
	if limit <= 0 || offset < 0 || offset >= len(s.records) {
		return nil, 0, nil
	}
	end := min(offset+limit, len(s.records))
	out := make([]Record, end-offset)
	copy(out, s.records[offset:end])
	return out, len(out), nil
}

// Stream yields the records one at a time in insertion order.
func (s *MemorySource) Stream(_ context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, r := range s.records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// csvColumns is the required header of a user table CSV.
var csvColumns = []string{"user_id", "name", "email", "age"}

// LoadCSV reads a CSV file with header user_id,name,email,age into a
// MemorySource. Malformed rows are skipped with a warning on slog.Default;
// a missing file or header is fatal and wraps ErrStoreUnavailable.
func LoadCSV(path string) (*MemorySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, storeError(err)
	}
	defer f.Close()

	records, err := decodeCSV(f, false, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &MemorySource{records: records}, nil
}

// decodeCSV parses user rows from r. When assignID is true, rows without a
// user_id are given a generated one instead of being skipped; ImportCSV uses
// this to mirror seeding behavior. Invalid rows are logged and dropped.
func decodeCSV(r io.Reader, assignID bool, logger *slog.Logger) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width is validated per record below

	header, err := cr.Read()
	if err != nil {
		return nil, storeError(fmt.Errorf("read csv header: %w", err))
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range csvColumns {
		if _, ok := cols[name]; !ok {
			return nil, storeError(fmt.Errorf("csv header missing column %q", name))
		}
	}

	var records []Record
	line := 1
	for {
		line++
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed csv row", "line", line, "error", err)
			continue
		}

		field := func(name string) string {
			i := cols[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		userID := field("user_id")
		if userID == "" && assignID {
			userID = newUserID()
		}

		rec, err := ParseRecord(userID, field("name"), field("email"), field("age"))
		if err != nil {
			logger.Warn("skipping invalid csv row", "line", line, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
