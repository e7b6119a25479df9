package average_test

import (
	"testing"

	"codeberg.org/mutker/airnode/internal/average"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		values []uint16
		want   uint16
	}{
		{"single value", []uint16{100}, 100},
		{"exact mean", []uint16{100, 102}, 101},
		{"rounds up on half", []uint16{100, 101}, 101}, // 100.5 -> 101
		{"rounds down below half", []uint16{100, 100, 101}, 100},
		{"three samples", []uint16{100, 101, 102}, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc average.Accumulator
			for _, v := range tt.values {
				acc.Add(v)
			}

			got, err := acc.Drain()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrainResetsState(t *testing.T) {
	var acc average.Accumulator
	acc.Add(10)
	acc.Add(20)

	_, err := acc.Drain()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), acc.Count())

	// A fresh accumulation after drain is unaffected by prior values
	acc.Add(7)
	got, err := acc.Drain()
	require.NoError(t, err)
	assert.Equal(t, uint16(7), got)
}

func TestDrainEmpty(t *testing.T) {
	var acc average.Accumulator

	_, err := acc.Drain()
	require.Error(t, err)
	assert.True(t, average.IsNoData(err))

	// Still empty, still a no-op
	_, err = acc.Drain()
	assert.True(t, average.IsNoData(err))
}

func TestIsNoDataRejectsOtherErrors(t *testing.T) {
	assert.False(t, average.IsNoData(nil))
	assert.False(t, average.IsNoData(assert.AnError))
}
