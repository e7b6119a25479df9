package compensation

import (
	"context"

	"codeberg.org/mutker/airnode/internal/clock"
	"codeberg.org/mutker/airnode/internal/logger"
	"codeberg.org/mutker/airnode/internal/sensor"
	"codeberg.org/mutker/airnode/internal/telemetry"
)

// Feedback periodically reads ambient conditions, feeds them into the gas
// sensor's compensation input and publishes them as retained telemetry.
type Feedback struct {
	gas    sensor.Gas
	env    sensor.Environment
	pub    *telemetry.Publisher
	period uint32 // milliseconds between compensation runs
	last   clock.Ticks

	lastTempC    float32
	lastHumidity float32
	seenAmbient  bool
}

// New creates a compensation feedback loop running every period milliseconds.
func New(gas sensor.Gas, env sensor.Environment, pub *telemetry.Publisher, period uint32, now clock.Ticks) *Feedback {
	return &Feedback{
		gas:    gas,
		env:    env,
		pub:    pub,
		period: period,
		last:   now,
	}
}

// Apply runs one compensation cycle when the period has elapsed. The gas
// sensor is put to sleep around the ambient read and woken before the
// compensation write: both sensors share a power domain, and reading ambient
// values while the gas sensor is active can starve the bus.
func (f *Feedback) Apply(ctx context.Context, now clock.Ticks) error {
	if !clock.Due(now, f.last, f.period) {
		return nil
	}
	f.last = now

	if err := f.gas.SetActive(false); err != nil {
		return err
	}

	tempC, err := f.env.ReadTemperatureC()
	if err != nil {
		f.wake()
		return err
	}

	humidity, err := f.env.ReadHumidityPercent()
	if err != nil {
		f.wake()
		return err
	}

	if err := f.gas.SetActive(true); err != nil {
		return err
	}

	if err := f.gas.SetCompensation(humidity, tempC); err != nil {
		return err
	}

	f.lastTempC = tempC
	f.lastHumidity = humidity
	f.seenAmbient = true

	logger.Debug().
		Float32("temperature_c", tempC).
		Float32("humidity_pct", humidity).
		Msg("Applied environmental compensation")

	// Best effort: ambient telemetry failures are logged by the publisher
	// and retried naturally next period.
	if err := f.pub.Publish(ctx, telemetry.MetricTemperature, telemetry.FormatAmbient(tempC), true); err == nil {
		_ = f.pub.Publish(ctx, telemetry.MetricHumidity, telemetry.FormatAmbient(humidity), true)
	}

	return nil
}

// Ambient returns the most recent ambient readings, if any cycle has
// completed yet.
func (f *Feedback) Ambient() (tempC, humidityPct float32, ok bool) {
	return f.lastTempC, f.lastHumidity, f.seenAmbient
}

func (f *Feedback) wake() {
	if err := f.gas.SetActive(true); err != nil {
		logger.Warn().Err(err).Msg("Failed to wake gas sensor")
	}
}
