package sensor

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/airnode/internal/errors"
)

// Mock simulates a sensor head for development and testing. Measurements
// follow a slow sine drift with configurable noise so downstream smoothing
// and level mapping have something realistic to chew on.
type Mock struct {
	mu sync.Mutex

	sampleEvery time.Duration
	lastSample  time.Time
	start       time.Time

	baseline    uint16
	active      bool
	absHumidity float32

	slots     []Color
	committed []Color

	noise *rand.Rand
}

// NewMock creates a simulated sensor head emitting a measurement every
// sampleEvery. A zero duration defaults to one second.
func NewMock(sampleEvery time.Duration) *Mock {
	if sampleEvery <= 0 {
		sampleEvery = time.Second
	}

	now := time.Now()

	return &Mock{
		sampleEvery: sampleEvery,
		start:       now,
		lastSample:  now,
		baseline:    0x8a2f,
		active:      true,
		slots:       make([]Color, 8),
		committed:   make([]Color, 8),
		noise:       rand.New(rand.NewSource(now.UnixNano())),
	}
}

func (m *Mock) SampleReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastSample) >= m.sampleEvery
}

func (m *Mock) ReadSample() (Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSample = time.Now()

	// TVOC drifts 0..400 ppb over ~10 minutes with a little jitter
	phase := time.Since(m.start).Seconds() / 600 * 2 * math.Pi
	tvoc := 200 + 200*math.Sin(phase) + m.noise.Float64()*20

	return Reading{
		TVOC: uint16(tvoc),
		ECO2: uint16(400 + tvoc/2),
	}, nil
}

func (m *Mock) ReadCalibration() (uint16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline, nil
}

func (m *Mock) ApplyCalibration(baseline uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline = baseline
	return nil
}

func (m *Mock) SetCompensation(humidityPct, tempC float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absHumidity = absoluteHumidity(humidityPct, tempC)
	return nil
}

func (m *Mock) SetActive(active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
	return nil
}

func (m *Mock) ReadTemperatureC() (float32, error) {
	return 21.5 + float32(m.noise.Float64()), nil
}

func (m *Mock) ReadHumidityPercent() (float32, error) {
	return 45 + float32(m.noise.Float64())*5, nil
}

func (m *Mock) SetSlot(index int, c Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.slots) {
		return errors.New().WithData(ErrSlotOutOfRange, index)
	}
	m.slots[index] = c

	return nil
}

func (m *Mock) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.committed, m.slots)
	return nil
}

// Committed returns the slots as of the last Commit. Test helper.
func (m *Mock) Committed() []Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Color, len(m.committed))
	copy(out, m.committed)

	return out
}
