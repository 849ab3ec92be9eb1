package userstream

import (
	"context"
	"iter"
	"log/slog"
)

// State identifies where the reader is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"      // no pull has happened yet
	StateFetching  State = "fetching"  // at least one window/row fetched
	StateExhausted State = "exhausted" // source drained; terminal
	StateFailed    State = "failed"    // store error surfaced; terminal
)

// Reader turns a Source into the three consumer-facing iteration shapes:
// single-row streaming ([Reader.Rows]), fixed-size batches ([Reader.Batches])
// and lazy pages ([Reader.Pages]).
//
// The reader owns the scan offset. It advances monotonically by the requested
// window size after each fetch — even when the store returns a short window —
// and is reset only by creating a new reader. A reader represents one pass
// over the source: once Exhausted or Failed, further pulls yield nothing.
//
// Iteration is pull-based and single-threaded; the consumer drives progress
// and a Reader must not be shared across goroutines. For parallel scans, open
// one reader per source connection (see [FetchConcurrently]).
type Reader struct {
	src    Source
	logger *slog.Logger

	filter        func(Record) bool
	progressFn    ProgressFunc
	progressEvery int64

	offset int
	state  State
	err    error
	stats  *Stats
}

// NewReader creates a reader over src in the Idle state.
func NewReader(src Source) *Reader {
	return &Reader{
		src:    src,
		logger: slog.Default(),
		state:  StateIdle,
		stats:  &Stats{},
	}
}

// WithFilter sets a predicate applied to each record before it is yielded,
// in every iteration mode. Filtering never changes offset arithmetic: the
// offset advances by the raw window size read from the source, not the
// post-filter count. Nil predicates are ignored.
func (r *Reader) WithFilter(pred func(Record) bool) *Reader {
	if pred != nil {
		r.filter = pred
	}
	return r
}

// WithLogger overrides the reader's logger. Nil values are ignored.
func (r *Reader) WithLogger(logger *slog.Logger) *Reader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithProgress registers fn to be called each time the cumulative scanned
// count crosses an interval boundary. Intervals less than 1 are ignored.
func (r *Reader) WithProgress(interval int, fn ProgressFunc) *Reader {
	if interval >= 1 && fn != nil {
		r.progressEvery = int64(interval)
		r.progressFn = fn
	}
	return r
}

// WithStartOffset resumes a windowed scan at a previously observed offset.
// Only honored while the reader is still Idle; negative values are ignored.
func (r *Reader) WithStartOffset(offset int) *Reader {
	if offset >= 0 && r.state == StateIdle {
		r.offset = offset
	}
	return r
}

// State returns the reader's current lifecycle state.
func (r *Reader) State() State { return r.state }

// Offset returns the cursor: the cumulative requested-size row count already
// consumed by windowed iteration.
func (r *Reader) Offset() int { return r.offset }

// Err returns the terminal store error after the reader enters Failed,
// or nil.
func (r *Reader) Err() error { return r.err }

// Stats returns the reader's scan counters. Safe to read at any time.
func (r *Reader) Stats() *Stats { return r.stats }

// Rows produces a lazy, finite, non-restartable sequence of single records,
// pulling from the source's live stream. Each pull may block on I/O; the
// caller controls pacing. Breaking out of the loop releases the underlying
// cursor and leaves the reader Exhausted.
func (r *Reader) Rows(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if r.terminal() {
			return
		}
		r.state = StateFetching
		defer func() {
			if r.state == StateFetching {
				r.state = StateExhausted
			}
		}()

		for rec, err := range r.src.Stream(ctx) {
			if err != nil {
				r.fail(err)
				yield(Record{}, err)
				return
			}
			scanned := r.stats.incScanned(1)
			r.report(ctx, scanned-1, scanned)

			if r.filter != nil && !r.filter(rec) {
				r.stats.incFiltered(1)
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Batches repeatedly fetches windows of size records, yielding each window
// until the source is exhausted. Exhaustion follows the raw row count the
// source scanned: the final short window is still yielded, a raw-empty
// window is the terminal sentinel and is not. A store error is yielded
// exactly once and moves the reader to Failed.
//
// When a filter is set, it is applied within each raw window before the
// yield. A window whose records are all filtered out — or all skipped as
// invalid by the source — is yielded as an empty batch so that batch
// numbering mirrors the raw scan.
func (r *Reader) Batches(ctx context.Context, size int) iter.Seq2[[]Record, error] {
	return r.windows(ctx, size)
}

// Pages is a second entry point with the identical contract as [Reader.Batches].
// Both names delegate to the same windowing loop and share the reader's
// offset, so they can be used interchangeably at independent call sites.
func (r *Reader) Pages(ctx context.Context, size int) iter.Seq2[[]Record, error] {
	return r.windows(ctx, size)
}

// windows is the single offset-advance loop behind Batches and Pages.
func (r *Reader) windows(ctx context.Context, size int) iter.Seq2[[]Record, error] {
	return func(yield func([]Record, error) bool) {
		if size <= 0 || r.terminal() {
			return
		}
		r.state = StateFetching

		for {
			window, raw, err := r.src.FetchWindow(ctx, size, r.offset)
			if err != nil {
				r.fail(err)
				yield(nil, err)
				return
			}
			// Exhaustion is decided on the raw row count: invalid rows the
			// source skipped shrink the window but must not end the scan.
			if raw == 0 {
				r.state = StateExhausted
				return
			}

			// The cursor advances by the requested size, not the returned size.
			r.offset += size
			short := raw < size

			scanned := r.stats.incScanned(int64(raw))
			r.stats.incBatches(1)
			r.report(ctx, scanned-int64(raw), scanned)

			if r.filter != nil {
				window = r.applyFilter(window)
			}
			if !yield(window, nil) {
				return
			}
			if short {
				r.state = StateExhausted
				return
			}
		}
	}
}

// applyFilter keeps the records matching the predicate, counting the rest.
func (r *Reader) applyFilter(window []Record) []Record {
	kept := make([]Record, 0, len(window))
	for _, rec := range window {
		if r.filter(rec) {
			kept = append(kept, rec)
		} else {
			r.stats.incFiltered(1)
		}
	}
	return kept
}

// report invokes the progress hook when the scanned count crosses an
// interval boundary between prev and cur.
func (r *Reader) report(ctx context.Context, prev, cur int64) {
	if r.progressFn != nil && cur/r.progressEvery > prev/r.progressEvery {
		r.progressFn(ctx, r.stats)
	}
}

func (r *Reader) terminal() bool {
	return r.state == StateExhausted || r.state == StateFailed
}

// fail records the terminal error. The error is surfaced to the caller once,
// at the pull that observed it; later pulls yield nothing.
func (r *Reader) fail(err error) {
	r.state = StateFailed
	r.err = err
	r.stats.incErrors(1)
	r.logger.Warn("stream failed", "offset", r.offset, "error", err)
}
