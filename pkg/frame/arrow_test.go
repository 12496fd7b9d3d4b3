package frame

import (
	"testing"

	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPCRoundTrip(t *testing.T) {
	df, err := NewDataFrame(
		NewStringSeries("name", []string{"a", "b", "c"}),
		NewInt64Series("capacity", []int64{20, 10, 0}),
		NewFloat64Series("score", []float64{0.5, 1.25, -3}),
		NewBoolSeries("active", []bool{true, false, true}),
	)
	require.NoError(t, err)

	b, err := df.MarshalIPC()
	require.NoError(t, err)
	require.NotEmpty(t, b)

	got, err := UnmarshalIPC(b)
	require.NoError(t, err)
	assert.True(t, got.Equal(df), "got %s, want %s", got, df)
}

func TestIPCEmptyTable(t *testing.T) {
	b, err := (&DataFrame{}).MarshalIPC()
	require.NoError(t, err)
	assert.Nil(t, b)

	got, err := UnmarshalIPC(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumColumns())
}

func TestRecordRoundTrip(t *testing.T) {
	df, err := NewDataFrame(
		NewStringSeries("src", []string{"a", "b"}),
		NewInt64Series("flow", []int64{10, 0}),
	)
	require.NoError(t, err)

	rec, err := df.Record(memory.DefaultAllocator)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(2), rec.NumRows())
	got, err := FromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.Equal(df))
}
