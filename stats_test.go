package userstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/userstream"
)

func TestStats_NewStats(t *testing.T) {
	stats := userstream.NewStats(100, 10, 4, 1)
	require.Equal(t, int64(100), stats.Scanned())
	require.Equal(t, int64(10), stats.Filtered())
	require.Equal(t, int64(4), stats.Batches())
	require.Equal(t, int64(1), stats.Errors())
}

func TestStats_JSONRoundTrip(t *testing.T) {
	stats := userstream.NewStats(100, 10, 4, 1)
	data, err := stats.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"scanned":100,"filtered":10,"batches":4,"errors":1}`, string(data))

	restored := &userstream.Stats{}
	require.NoError(t, restored.UnmarshalJSON(data))
	require.Equal(t, int64(100), restored.Scanned())
	require.Equal(t, int64(1), restored.Errors())
}

func TestStats_UnmarshalJSON_Error(t *testing.T) {
	stats := &userstream.Stats{}
	err := stats.UnmarshalJSON([]byte(`invalid json`))
	require.Error(t, err)
}
