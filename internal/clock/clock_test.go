package clock_test

import (
	"math"
	"testing"
	"time"

	"codeberg.org/mutker/airnode/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSince(t *testing.T) {
	assert.Equal(t, uint32(0), clock.Since(100, 100))
	assert.Equal(t, uint32(50), clock.Since(150, 100))
}

func TestSinceWraparound(t *testing.T) {
	// now has wrapped past zero while last is near the top of the range
	last := clock.Ticks(math.MaxUint32 - 10)
	now := clock.Ticks(20)

	assert.Equal(t, uint32(31), clock.Since(now, last))
}

func TestDue(t *testing.T) {
	tests := []struct {
		name   string
		now    clock.Ticks
		last   clock.Ticks
		period uint32
		want   bool
	}{
		{"not elapsed", 500, 100, 1000, false},
		{"exactly period", 1100, 100, 1000, false},
		{"elapsed", 1101, 100, 1000, true},
		{"wrapped and elapsed", 1000, math.MaxUint32 - 500, 1000, true},
		{"wrapped not elapsed", 100, math.MaxUint32 - 500, 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clock.Due(tt.now, tt.last, tt.period))
		})
	}
}

// Due must agree with true modular elapsed time for arbitrary counter values.
func TestDueModularEquivalence(t *testing.T) {
	cases := []struct {
		now, last uint32
		period    uint32
	}{
		{0, 0, 0},
		{1, 0, 0},
		{0, math.MaxUint32, 0},
		{12345, math.MaxUint32 - 100, 10000},
		{math.MaxUint32, 0, math.MaxUint32 - 1},
		{42, 43, 1000},
	}

	for _, c := range cases {
		elapsed := (uint64(c.now) + (1 << 32) - uint64(c.last)) % (1 << 32)
		want := elapsed > uint64(c.period)
		assert.Equal(t, want, clock.Due(clock.Ticks(c.now), clock.Ticks(c.last), c.period),
			"now=%d last=%d period=%d", c.now, c.last, c.period)
	}
}

func TestMonotonicAdvances(t *testing.T) {
	clk := clock.NewMonotonic()
	first := clk.Now()
	time.Sleep(5 * time.Millisecond)
	second := clk.Now()

	require.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, clock.Since(second, first), uint32(5))
}
