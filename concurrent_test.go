package userstream_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/userstream"
)

func TestFetchConcurrently_JoinsBothScans(t *testing.T) {
	records := recordsWithAges(28, 34, 42, 51, 19)

	var mu sync.Mutex
	var opened []*fakeSource
	open := func(context.Context) (userstream.Source, error) {
		src := newFakeSource(records)
		mu.Lock()
		opened = append(opened, src)
		mu.Unlock()
		return src, nil
	}

	all, older, err := userstream.FetchConcurrently(context.Background(), open, 40)
	require.NoError(t, err)

	require.Len(t, all, 5)
	require.Len(t, older, 2) // ages 42 and 51

	// Each scan used its own connection, and both were released.
	require.Len(t, opened, 2)
	for _, src := range opened {
		require.True(t, src.closed)
	}
}

func TestFetchConcurrently_ScanFailurePropagates(t *testing.T) {
	records := recordsWithAges(28, 34, 42)

	var mu sync.Mutex
	var opened []*fakeSource
	open := func(context.Context) (userstream.Source, error) {
		src := newFakeSource(records)
		mu.Lock()
		if len(opened) == 0 {
			src.failStreamAfter = 1
		}
		opened = append(opened, src)
		mu.Unlock()
		return src, nil
	}

	_, _, err := userstream.FetchConcurrently(context.Background(), open, 40)
	require.ErrorIs(t, err, userstream.ErrStoreUnavailable)

	mu.Lock()
	defer mu.Unlock()
	for _, src := range opened {
		require.True(t, src.closed)
	}
}

func TestFetchConcurrently_OpenFailure(t *testing.T) {
	open := func(context.Context) (userstream.Source, error) {
		return nil, userstream.ErrStoreUnavailable
	}

	_, _, err := userstream.FetchConcurrently(context.Background(), open, 40)
	require.ErrorIs(t, err, userstream.ErrStoreUnavailable)
}
