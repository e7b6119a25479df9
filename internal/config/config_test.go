package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/airnode/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	configContent := []byte(`
poll_interval = 100
report_period = 60
calibration_period = 1800
compensation_period = 30
broker = "broker.lan:1883"
topic_prefix = "home/air"
sensor_port = "/dev/ttyACM0"
indicator = false
interface = "wlp3s0"
log_level = "debug"
journal = true
journal_db = "/path/to/journal.db"
thresholds = [25, 50, 100, 200]
`)
	configPath := filepath.Join(t.TempDir(), "airnode.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("AIRNODE_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.PollInterval, "Expected PollInterval 100")
	assert.Equal(t, 60, cfg.ReportPeriod, "Expected ReportPeriod 60")
	assert.Equal(t, 1800, cfg.CalibrationPeriod, "Expected CalibrationPeriod 1800")
	assert.Equal(t, 30, cfg.CompensationPeriod, "Expected CompensationPeriod 30")
	assert.Equal(t, "broker.lan:1883", cfg.Broker, "Expected Broker broker.lan:1883")
	assert.Equal(t, "home/air", cfg.TopicPrefix, "Expected TopicPrefix home/air")
	assert.Equal(t, "/dev/ttyACM0", cfg.SensorPort, "Expected SensorPort /dev/ttyACM0")
	assert.False(t, cfg.Indicator, "Expected Indicator false")
	assert.Equal(t, "wlp3s0", cfg.Interface, "Expected Interface wlp3s0")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Journal, "Expected Journal true")
	assert.Equal(t, "/path/to/journal.db", cfg.JournalDB, "Expected JournalDB /path/to/journal.db")
	assert.Equal(t, []int{25, 50, 100, 200}, cfg.Thresholds)
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("AIRNODE_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 250, cfg.PollInterval, "Expected default PollInterval 250")
	assert.Equal(t, 30, cfg.ReportPeriod, "Expected default ReportPeriod 30")
	assert.Equal(t, 3600, cfg.CalibrationPeriod, "Expected default CalibrationPeriod 3600")
	assert.Equal(t, 60, cfg.CompensationPeriod, "Expected default CompensationPeriod 60")
	assert.Equal(t, "localhost:1883", cfg.Broker, "Expected default Broker localhost:1883")
	assert.Equal(t, "airnode", cfg.TopicPrefix, "Expected default TopicPrefix airnode")
	assert.True(t, cfg.Indicator, "Expected default Indicator true")
	assert.False(t, cfg.Mock, "Expected default Mock false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(t.TempDir(), "airnode.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("AIRNODE_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(t.TempDir(), "airnode.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("AIRNODE_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_log_level")
}

func TestInvalidPeriods(t *testing.T) {
	configContent := []byte(`
report_period = 0
`)
	configPath := filepath.Join(t.TempDir(), "airnode.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("AIRNODE_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_interval")
}

func TestNonIncreasingThresholds(t *testing.T) {
	configContent := []byte(`
thresholds = [50, 50]
`)
	configPath := filepath.Join(t.TempDir(), "airnode.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("AIRNODE_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLogLevelFlag(t *testing.T) {
	// Save original args and restore after test
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "--log-level", "debug"}
	t.Setenv("AIRNODE_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}
