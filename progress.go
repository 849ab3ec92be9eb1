package userstream

import "context"

// ProgressFunc receives periodic progress updates during iteration. Register
// one via [Reader.WithProgress] to log throughput or update a dashboard while
// a long scan is running.
//
// The hook is called each time the cumulative scanned count crosses an
// interval boundary, in both row and window iteration modes. The Stats
// snapshot is safe to read concurrently. The hook runs on the consumer's
// goroutine, so avoid blocking I/O inside it.
//
// Example:
//
//	reader := userstream.NewReader(src).
//	    WithProgress(10000, func(ctx context.Context, stats *userstream.Stats) {
//	        slog.InfoContext(ctx, "scan progress", "stats", stats)
//	    })
type ProgressFunc func(ctx context.Context, stats *Stats)
