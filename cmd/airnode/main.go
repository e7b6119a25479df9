package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/airnode/internal/baseline"
	"codeberg.org/mutker/airnode/internal/clock"
	"codeberg.org/mutker/airnode/internal/compensation"
	"codeberg.org/mutker/airnode/internal/config"
	"codeberg.org/mutker/airnode/internal/engine"
	"codeberg.org/mutker/airnode/internal/identity"
	"codeberg.org/mutker/airnode/internal/journal"
	"codeberg.org/mutker/airnode/internal/levels"
	"codeberg.org/mutker/airnode/internal/logger"
	"codeberg.org/mutker/airnode/internal/sensor"
	"codeberg.org/mutker/airnode/internal/telemetry"
	"codeberg.org/mutker/airnode/internal/watchdog"
)

// calibrationOffset places the record at the start of the storage region.
const calibrationOffset = 0

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		logger.SetLogLevel(logLevel(cfg.LogLevel))
	}
	logger.Debug().Msg("Config loaded")
}

func logLevel(name string) logger.LogLevel {
	switch name {
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "warning":
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

func main() {
	deviceID := identity.DeviceID()
	logger.Info().Str("device_id", deviceID).Msg("Starting airnode")

	head, closeHead := openSensorHead()
	defer closeHead()

	storage, err := baseline.OpenFileStorage(cfg.CalibrationPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open calibration storage")
	}
	defer storage.Close()

	client, err := telemetry.NewPahoClient(cfg.Broker)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure broker client")
	}
	publisher := telemetry.NewPublisher(client, cfg.TopicPrefix, deviceID)

	recorder, err := journal.NewService(journal.Config{Enabled: cfg.Journal, DBPath: cfg.JournalDB})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open measurement journal")
	}
	defer recorder.Close()

	mapper, err := buildMapper(head)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build level mapper")
	}

	clk := clock.NewMonotonic()
	now := clk.Now()

	eng := engine.New(engine.Components{
		Clock:        clk,
		Gas:          head,
		Mapper:       mapper,
		Baseline:     baseline.NewStore(storage, head, calibrationOffset, secondsToMillis(cfg.CalibrationPeriod), now),
		Feedback:     compensation.New(head, head, publisher, secondsToMillis(cfg.CompensationPeriod), now),
		Publisher:    publisher,
		Journal:      recorder,
		Watchdog:     watchdog.NewMonitor(watchdog.NewLinkState(cfg.Interface)),
		PollInterval: time.Duration(cfg.PollInterval) * time.Millisecond,
		ReportPeriod: secondsToMillis(cfg.ReportPeriod),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	runErr := eng.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := publisher.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to close telemetry session")
	}

	if watchdog.IsNetworkLost(runErr) {
		logger.Error().Err(runErr).Msg("Connectivity watchdog tripped, restarting device")
		if err := (watchdog.SystemRestarter{}).Restart(); err != nil {
			logger.Fatal().Err(err).Msg("failed to restart device")
		}
		return
	}

	if runErr != nil {
		logger.Error().Err(runErr).Msg("error in main loop")
		os.Exit(1)
	}

	logger.Info().Msg("Shutdown complete")
}

// sensorHead is the full hardware surface a head exposes over one link.
type sensorHead interface {
	sensor.Gas
	sensor.Environment
	sensor.Indicator
}

func openSensorHead() (sensorHead, func()) {
	if cfg.Mock {
		logger.Info().Msg("Using simulated sensor head")
		return sensor.NewMock(time.Duration(cfg.PollInterval) * time.Millisecond), func() {}
	}

	link := sensor.NewLink(cfg.SensorPort, sensor.DefaultBaudRate)
	if err := link.Open(); err != nil {
		logger.Fatal().Err(err).Msg("failed to open sensor head link")
	}

	return link, func() {
		if err := link.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close sensor head link")
		}
	}
}

func buildMapper(indicator sensor.Indicator) (*levels.Mapper, error) {
	if !cfg.Indicator {
		return nil, nil
	}

	return levels.NewMapper(bandsFromThresholds(cfg.Thresholds), indicator)
}

// bandsFromThresholds keeps the stock green-to-red ramp and swaps in
// configured thresholds positionally. Extra thresholds reuse the last color.
func bandsFromThresholds(thresholds []int) []levels.Band {
	bands := levels.DefaultBands()
	if len(thresholds) == 0 {
		return bands
	}

	out := make([]levels.Band, len(thresholds))
	for i, threshold := range thresholds {
		colorIdx := i
		if colorIdx >= len(bands) {
			colorIdx = len(bands) - 1
		}
		out[i] = levels.Band{Threshold: uint16(threshold), Color: bands[colorIdx].Color}
	}

	return out
}

func secondsToMillis(seconds int) uint32 {
	return uint32(seconds) * 1000
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
