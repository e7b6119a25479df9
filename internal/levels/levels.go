package levels

import (
	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/sensor"
)

// Band pairs a threshold with the color its indicator slot shows once a
// reading meets or exceeds the threshold.
type Band struct {
	Threshold uint16
	Color     sensor.Color
}

// DefaultBands is a cumulative TVOC bar in ppb: green through red.
func DefaultBands() []Band {
	return []Band{
		{Threshold: 25, Color: sensor.Color{G: 64}},
		{Threshold: 50, Color: sensor.Color{G: 64}},
		{Threshold: 100, Color: sensor.Color{R: 48, G: 48}},
		{Threshold: 200, Color: sensor.Color{R: 64, G: 24}},
		{Threshold: 400, Color: sensor.Color{R: 64}},
	}
}

// Mapper renders a scalar reading onto an ordered band table as a cumulative
// bar: every band at or below the reading lights up, the rest go dark.
type Mapper struct {
	bands      []Band
	indicator  sensor.Indicator
	errFactory errors.Factory
}

// NewMapper validates the band table (strictly increasing thresholds, at
// least one band) and binds it to an indicator.
func NewMapper(bands []Band, indicator sensor.Indicator) (*Mapper, error) {
	errFactory := errors.New()

	if len(bands) == 0 {
		return nil, errFactory.WithMessage(ErrInvalidBands, "band table is empty")
	}

	for i := 1; i < len(bands); i++ {
		if bands[i].Threshold <= bands[i-1].Threshold {
			return nil, errFactory.WithData(ErrInvalidBands, struct {
				Index     int
				Threshold uint16
			}{i, bands[i].Threshold})
		}
	}

	return &Mapper{
		bands:      bands,
		indicator:  indicator,
		errFactory: errFactory,
	}, nil
}

// Render redraws every slot from the reading and commits once. Pure in the
// value and the static table, so repeated calls with the same reading are
// idempotent.
func (m *Mapper) Render(value uint16) error {
	for i, band := range m.bands {
		color := sensor.Off
		if value >= band.Threshold {
			color = band.Color
		}

		if err := m.indicator.SetSlot(i, color); err != nil {
			return m.errFactory.Wrap(ErrRenderFailed, err)
		}
	}

	if err := m.indicator.Commit(); err != nil {
		return m.errFactory.Wrap(ErrRenderFailed, err)
	}

	return nil
}
