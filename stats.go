package userstream

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
)

// Stats provides scan statistics with thread-safe access. Counter fields use
// atomic operations so progress hooks and concurrent scans can read them
// while iteration is in flight.
type Stats struct {
	scanned  atomic.Int64
	filtered atomic.Int64
	batches  atomic.Int64
	errors   atomic.Int64
}

// NewStats creates a Stats with initial counter values. Use this when
// restoring persisted progress alongside a saved offset.
func NewStats(scanned, filtered, batches, errors int64) *Stats {
	s := &Stats{}
	s.scanned.Store(scanned)
	s.filtered.Store(filtered)
	s.batches.Store(batches)
	s.errors.Store(errors)
	return s
}

// Scanned returns the number of records read from the source.
func (s *Stats) Scanned() int64 { return s.scanned.Load() }

// Filtered returns the number of records rejected by the reader's filter.
func (s *Stats) Filtered() int64 { return s.filtered.Load() }

// Batches returns the number of non-empty windows fetched.
func (s *Stats) Batches() int64 { return s.batches.Load() }

// Errors returns the number of store errors encountered.
func (s *Stats) Errors() int64 { return s.errors.Load() }

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("scanned", s.Scanned()),
		slog.Int64("filtered", s.Filtered()),
		slog.Int64("batches", s.Batches()),
		slog.Int64("errors", s.Errors()),
	)
}

// statsJSON is the JSON representation for marshaling/unmarshaling Stats.
type statsJSON struct {
	Scanned  int64 `json:"scanned"`
	Filtered int64 `json:"filtered"`
	Batches  int64 `json:"batches"`
	Errors   int64 `json:"errors"`
}

// MarshalJSON implements json.Marshaler for Stats serialization.
func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		Scanned:  s.scanned.Load(),
		Filtered: s.filtered.Load(),
		Batches:  s.batches.Load(),
		Errors:   s.errors.Load(),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Stats deserialization.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var v statsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.scanned.Store(v.Scanned)
	s.filtered.Store(v.Filtered)
	s.batches.Store(v.Batches)
	s.errors.Store(v.Errors)
	return nil
}

// Internal increment methods. These return the new value after incrementing,
// which is essential for race-free progress tracking.
func (s *Stats) incScanned(n int64) int64  { return s.scanned.Add(n) }
func (s *Stats) incFiltered(n int64) int64 { return s.filtered.Add(n) }
func (s *Stats) incBatches(n int64) int64  { return s.batches.Add(n) }
func (s *Stats) incErrors(n int64) int64   { return s.errors.Add(n) }
