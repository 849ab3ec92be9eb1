package userstream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchConcurrently runs two independent full-table scans in parallel — all
// users, and users older than minAge — and joins both results. Each scan
// opens its own source via open, shares no mutable state with the other, and
// closes its source on every exit path, so no locking is involved.
//
// The first scan error cancels the sibling scan through the group context
// and is returned to the caller.
func FetchConcurrently(ctx context.Context, open func(ctx context.Context) (Source, error), minAge int) (all, older []Record, err error) {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		records, err := collect(ctx, open, nil)
		if err != nil {
			return err
		}
		all = records
		return nil
	})

	group.Go(func() error {
		records, err := collect(ctx, open, func(r Record) bool { return r.Age > minAge })
		if err != nil {
			return err
		}
		older = records
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return all, older, nil
}

// collect drains one full scan over a freshly opened source, applying pred
// when set. The source is closed before collect returns.
func collect(ctx context.Context, open func(ctx context.Context) (Source, error), pred func(Record) bool) (records []Record, err error) {
	src, err := open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closeSource(src); cerr != nil && err == nil {
			err = cerr
		}
	}()

	reader := NewReader(src)
	if pred != nil {
		reader.WithFilter(pred)
	}
	for rec, rerr := range reader.Rows(ctx) {
		if rerr != nil {
			return nil, rerr
		}
		records = append(records, rec)
	}
	return records, nil
}
