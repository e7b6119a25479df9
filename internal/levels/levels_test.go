package levels_test

import (
	"testing"

	"codeberg.org/mutker/airnode/internal/levels"
	"codeberg.org/mutker/airnode/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndicator struct {
	slots   map[int]sensor.Color
	commits int
	slotErr error
}

func newFakeIndicator() *fakeIndicator {
	return &fakeIndicator{slots: make(map[int]sensor.Color)}
}

func (f *fakeIndicator) SetSlot(index int, c sensor.Color) error {
	if f.slotErr != nil {
		return f.slotErr
	}
	f.slots[index] = c
	return nil
}

func (f *fakeIndicator) Commit() error {
	f.commits++
	return nil
}

func testBands() []levels.Band {
	on := sensor.Color{G: 64}
	return []levels.Band{
		{Threshold: 25, Color: on},
		{Threshold: 50, Color: on},
		{Threshold: 100, Color: on},
		{Threshold: 200, Color: on},
	}
}

func TestRenderCumulativeBar(t *testing.T) {
	ind := newFakeIndicator()
	mapper, err := levels.NewMapper(testBands(), ind)
	require.NoError(t, err)

	require.NoError(t, mapper.Render(75))

	on := sensor.Color{G: 64}
	assert.Equal(t, on, ind.slots[0])         // 25 <= 75
	assert.Equal(t, on, ind.slots[1])         // 50 <= 75
	assert.Equal(t, sensor.Off, ind.slots[2]) // 100 > 75
	assert.Equal(t, sensor.Off, ind.slots[3]) // 200 > 75
	assert.Equal(t, 1, ind.commits)
}

func TestRenderBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		value uint16
		lit   int
	}{
		{"below first band", 24, 0},
		{"exactly first threshold", 25, 1},
		{"all bands", 200, 4},
		{"above all bands", 60000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := newFakeIndicator()
			mapper, err := levels.NewMapper(testBands(), ind)
			require.NoError(t, err)

			require.NoError(t, mapper.Render(tt.value))

			lit := 0
			for _, c := range ind.slots {
				if c != sensor.Off {
					lit++
				}
			}
			assert.Equal(t, tt.lit, lit)

			// Full redraw every time
			assert.Len(t, ind.slots, len(testBands()))
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	ind := newFakeIndicator()
	mapper, err := levels.NewMapper(testBands(), ind)
	require.NoError(t, err)

	require.NoError(t, mapper.Render(75))
	first := make(map[int]sensor.Color, len(ind.slots))
	for k, v := range ind.slots {
		first[k] = v
	}

	require.NoError(t, mapper.Render(75))
	assert.Equal(t, first, ind.slots)
	assert.Equal(t, 2, ind.commits)
}

func TestNewMapperRejectsBadTables(t *testing.T) {
	ind := newFakeIndicator()

	_, err := levels.NewMapper(nil, ind)
	assert.Error(t, err)

	_, err = levels.NewMapper([]levels.Band{
		{Threshold: 50}, {Threshold: 50},
	}, ind)
	assert.Error(t, err)

	_, err = levels.NewMapper([]levels.Band{
		{Threshold: 100}, {Threshold: 25},
	}, ind)
	assert.Error(t, err)
}

func TestRenderPropagatesIndicatorError(t *testing.T) {
	ind := newFakeIndicator()
	ind.slotErr = assert.AnError

	mapper, err := levels.NewMapper(testBands(), ind)
	require.NoError(t, err)

	assert.Error(t, mapper.Render(75))
	assert.Zero(t, ind.commits)
}
