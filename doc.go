// Package userstream provides lazy, bounded-memory iteration over a user
// table backed by MySQL or a CSV-loaded in-memory table.
//
// A [Source] produces ordered rows; a [Reader] turns one source into three
// pull-based iteration shapes that differ only in how many rows are buffered
// per produced unit:
//
//   - [Reader.Rows]: unbounded single-row streaming from a live cursor
//   - [Reader.Batches]: fixed-size windows with optional in-batch filtering
//   - [Reader.Pages]: offset-based lazy pagination (same contract as Batches)
//
// # Quick Start
//
// Stream a table row by row:
//
//	db, err := userstream.OpenMySQL(ctx, userstream.DBConfig{
//	    Host: "localhost", User: "root", Name: "userstream",
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	reader := userstream.NewReader(userstream.NewSQLSource(db))
//	for rec, err := range reader.Rows(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.Name, rec.Age)
//	}
//
// Or paginate a CSV-backed table in windows of ten:
//
//	src, err := userstream.LoadCSV("user_data.csv")
//	if err != nil {
//	    return err
//	}
//	for page, err := range userstream.NewReader(src).Pages(ctx, 10) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("fetched %d users\n", len(page))
//	}
//
// # Offsets and Exhaustion
//
// The reader owns the scan cursor. Windowed iteration advances it by the
// requested window size after every fetch, even when the store returns a
// short window. Exhaustion follows the raw row count the source scanned —
// rows skipped as invalid shrink a window without ending the scan — and a
// raw short or empty window moves the reader to its terminal Exhausted
// state. Once Exhausted (or Failed), further pulls yield nothing;
// start a new reader to scan again, optionally resuming a saved position
// with [Reader.WithStartOffset].
//
// # Filtering
//
// [Reader.WithFilter] applies a predicate before records are yielded:
//
//	adults := userstream.NewReader(src).
//	    WithFilter(func(r userstream.Record) bool { return r.Age > 25 })
//
// Filtering is purely cosmetic to the scan: the same rows are visited and the
// offset progresses identically whatever the predicate rejects.
//
// # Errors
//
// Store failures (connection or query errors) wrap [ErrStoreUnavailable],
// surface exactly once at the pull that observed them, and leave the reader
// Failed; the reader never retries. Rows that fail to parse or validate are
// reported as [InvalidRecordError], logged at Warn, and skipped — the stream
// continues.
//
// # Aggregation
//
// [AverageAge] computes a running mean over single-row streaming without
// materializing the result set. [QueryCache] offers explicit, caller-
// invalidated caching of fetched result sets, and [FetchConcurrently] joins
// two independent parallel scans over separate connections.
package userstream
