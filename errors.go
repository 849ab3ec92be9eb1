package userstream

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable indicates the backing store could not be reached or a
// query against it failed. It is fatal to the stream: the reader enters its
// Failed state and does not retry. Callers decide whether to open a fresh
// reader. Match with errors.Is.
var ErrStoreUnavailable = errors.New("store unavailable")

// InvalidRecordError reports a row that failed to parse or validate. Invalid
// rows are skipped with a warning; they never terminate the stream.
type InvalidRecordError struct {
	UserID string // may be empty when the identifier itself is missing
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("invalid record: field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid record %s: field %s: %s", e.UserID, e.Field, e.Reason)
}

// storeError wraps a driver or I/O failure so callers can match it with
// errors.Is(err, ErrStoreUnavailable) while keeping the underlying cause.
func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
