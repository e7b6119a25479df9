package engine

import (
	"context"
	"time"

	"codeberg.org/mutker/airnode/internal/average"
	"codeberg.org/mutker/airnode/internal/baseline"
	"codeberg.org/mutker/airnode/internal/clock"
	"codeberg.org/mutker/airnode/internal/compensation"
	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/journal"
	"codeberg.org/mutker/airnode/internal/levels"
	"codeberg.org/mutker/airnode/internal/logger"
	"codeberg.org/mutker/airnode/internal/sensor"
	"codeberg.org/mutker/airnode/internal/telemetry"
	"codeberg.org/mutker/airnode/internal/watchdog"
)

// Components are the collaborators the engine drives. Each component owns
// exactly the state it mutates; the engine only sequences them.
type Components struct {
	Clock     clock.Clock
	Gas       sensor.Gas
	Mapper    *levels.Mapper // optional, nil without an indicator
	Baseline  *baseline.Store
	Feedback  *compensation.Feedback
	Publisher *telemetry.Publisher
	Journal   journal.Recorder
	Watchdog  *watchdog.Monitor

	PollInterval time.Duration
	ReportPeriod uint32 // milliseconds between telemetry reports
}

// Engine is the single-threaded cooperative scheduler: a sensor poll every
// iteration plus three independent periodic tasks (report, calibration
// persist, compensation) and the connectivity watchdog.
type Engine struct {
	c Components

	avgTVOC    average.Accumulator
	avgECO2    average.Accumulator
	lastReport clock.Ticks

	errFactory errors.Factory
}

// New creates an engine. Period timers arm from the current clock value.
func New(c Components) *Engine {
	return &Engine{
		c:          c,
		lastReport: c.Clock.Now(),
		errFactory: errors.New(),
	}
}

// Run restores calibration, then iterates until ctx is cancelled or the
// watchdog reports a fatal condition. The returned error is nil on clean
// cancellation; watchdog.IsNetworkLost identifies the restart case.
func (e *Engine) Run(ctx context.Context) error {
	// Calibration must reach the sensor before the first poll
	if err := e.c.Baseline.Restore(); err != nil {
		return e.errFactory.Wrap(errors.ErrInitApp, err)
	}

	ticker := time.NewTicker(e.c.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.step(ctx); err != nil {
				return err
			}
		}
	}
}

// step runs one scheduler iteration. Only the watchdog produces a non-nil
// result; everything else is recoverable and logged in place.
func (e *Engine) step(ctx context.Context) error {
	now := e.c.Clock.Now()

	e.poll()
	e.c.Baseline.PersistIfDue(now)

	if err := e.c.Feedback.Apply(ctx, now); err != nil {
		logger.Warn().Err(err).Msg("Compensation cycle failed")
	}

	if clock.Due(now, e.lastReport, e.c.ReportPeriod) {
		e.lastReport = now
		e.report(ctx)
	}

	e.c.Publisher.Tick()

	return e.c.Watchdog.Check()
}

func (e *Engine) poll() {
	if !e.c.Gas.SampleReady() {
		return
	}

	reading, err := e.c.Gas.ReadSample()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read sensor sample")
		return
	}

	e.avgTVOC.Add(reading.TVOC)
	e.avgECO2.Add(reading.ECO2)

	if e.c.Mapper != nil {
		if err := e.c.Mapper.Render(reading.TVOC); err != nil {
			logger.Warn().Err(err).Msg("Failed to render level indicator")
		}
	}
}

// report drains both accumulators and publishes the rounded means. A metric
// with no samples is skipped this cycle; publish failures drop the value.
func (e *Engine) report(ctx context.Context) {
	snapshot := journal.Snapshot{Timestamp: time.Now()}
	reported := false

	if tvoc, err := e.avgTVOC.Drain(); err == nil {
		_ = e.c.Publisher.Publish(ctx, telemetry.MetricTVOC, telemetry.FormatCount(tvoc), false)
		snapshot.TVOC = tvoc
		reported = true
	} else if !average.IsNoData(err) {
		logger.Warn().Err(err).Msg("TVOC drain failed")
	}

	if eco2, err := e.avgECO2.Drain(); err == nil {
		_ = e.c.Publisher.Publish(ctx, telemetry.MetricECO2, telemetry.FormatCount(eco2), false)
		snapshot.ECO2 = eco2
		reported = true
	} else if !average.IsNoData(err) {
		logger.Warn().Err(err).Msg("eCO2 drain failed")
	}

	if !reported {
		return
	}

	if tempC, humidity, ok := e.c.Feedback.Ambient(); ok {
		snapshot.Temperature = tempC
		snapshot.Humidity = humidity
	}

	if err := e.c.Journal.Record(ctx, &snapshot); err != nil {
		logger.Warn().Err(err).Msg("Failed to journal report snapshot")
	}
}
