package sensor

// Reading is a single gas-quality measurement.
type Reading struct {
	TVOC uint16 // total volatile organic compounds, ppb
	ECO2 uint16 // equivalent CO2, ppm
}

// Color is one RGB indicator slot value.
type Color struct {
	R, G, B uint8
}

// Off is the unlit slot value.
var Off = Color{}

// Gas is the gas-quality sensor driver contract. Register-level access and
// measurement-ready polling live behind it; the engine only consumes
// value-available and read-value operations.
type Gas interface {
	// SampleReady reports whether a measurement is waiting to be read.
	SampleReady() bool

	// ReadSample returns the next pending measurement.
	ReadSample() (Reading, error)

	// ReadCalibration returns the sensor's current baseline correction state.
	ReadCalibration() (uint16, error)

	// ApplyCalibration restores a previously persisted baseline.
	ApplyCalibration(baseline uint16) error

	// SetCompensation feeds ambient conditions into the sensor so it can
	// correct for environmental drift.
	SetCompensation(humidityPct, tempC float32) error

	// SetActive toggles the sensor's low-power control. The sensor must be
	// inactive while the environmental sensor is read on a shared bus.
	SetActive(active bool) error
}

// Environment is the ambient temperature/humidity sensor driver contract.
type Environment interface {
	ReadTemperatureC() (float32, error)
	ReadHumidityPercent() (float32, error)
}

// Indicator is the visual level-bar hardware contract. Slot updates are
// staged and take effect on Commit.
type Indicator interface {
	SetSlot(index int, c Color) error
	Commit() error
}

// Ensure both head implementations satisfy the driver contracts.
var (
	_ Gas         = (*Link)(nil)
	_ Environment = (*Link)(nil)
	_ Indicator   = (*Link)(nil)

	_ Gas         = (*Mock)(nil)
	_ Environment = (*Mock)(nil)
	_ Indicator   = (*Mock)(nil)
)
