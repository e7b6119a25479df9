package config

import (
	"os"

	"codeberg.org/mutker/airnode/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultPollInterval       = 250  // milliseconds between loop iterations
	defaultReportPeriod       = 30   // seconds between telemetry reports
	defaultCalibrationPeriod  = 3600 // seconds between baseline persists
	defaultCompensationPeriod = 60   // seconds between compensation runs
	defaultBroker             = "localhost:1883"
	defaultTopicPrefix        = "airnode"
	defaultSensorPort         = "/dev/ttyUSB0"
	defaultInterface          = "wlan0"
	defaultCalibrationPath    = "/var/lib/airnode/calibration.bin"
)

type Config struct {
	PollInterval       int    `mapstructure:"poll_interval"`
	ReportPeriod       int    `mapstructure:"report_period"`
	CalibrationPeriod  int    `mapstructure:"calibration_period"`
	CompensationPeriod int    `mapstructure:"compensation_period"`
	Broker             string `mapstructure:"broker"`
	TopicPrefix        string `mapstructure:"topic_prefix"`
	SensorPort         string `mapstructure:"sensor_port"`
	Mock               bool   `mapstructure:"mock"`
	Indicator          bool   `mapstructure:"indicator"`
	Thresholds         []int  `mapstructure:"thresholds"`
	Interface          string `mapstructure:"interface"`
	CalibrationPath    string `mapstructure:"calibration_path"`
	Journal            bool   `mapstructure:"journal"`
	JournalDB          string `mapstructure:"journal_db"`
	LogLevel           string `mapstructure:"log_level"`
	Debug              bool   `mapstructure:"debug"`
	Verbose            bool   `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("poll_interval", defaultPollInterval)
	v.SetDefault("report_period", defaultReportPeriod)
	v.SetDefault("calibration_period", defaultCalibrationPeriod)
	v.SetDefault("compensation_period", defaultCompensationPeriod)
	v.SetDefault("broker", defaultBroker)
	v.SetDefault("topic_prefix", defaultTopicPrefix)
	v.SetDefault("sensor_port", defaultSensorPort)
	v.SetDefault("indicator", true)
	v.SetDefault("interface", defaultInterface)
	v.SetDefault("calibration_path", defaultCalibrationPath)
	v.SetDefault("log_level", DefaultLogLevel)

	fs := pflag.NewFlagSet("airnode", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Int("poll-interval", defaultPollInterval, "Loop iteration interval in milliseconds")
	fs.Int("report-period", defaultReportPeriod, "Telemetry report period in seconds")
	fs.Int("calibration-period", defaultCalibrationPeriod, "Calibration persist period in seconds")
	fs.Int("compensation-period", defaultCompensationPeriod, "Environmental compensation period in seconds")
	fs.String("broker", defaultBroker, "MQTT broker address (host:port)")
	fs.String("topic-prefix", defaultTopicPrefix, "Topic prefix for telemetry")
	fs.String("sensor-port", defaultSensorPort, "Serial port of the sensor head")
	fs.Bool("mock", false, "Use a simulated sensor head")
	fs.Bool("indicator", true, "Drive the level-bar indicator")
	fs.String("interface", defaultInterface, "Network interface watched for association")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// Config file: explicit path via AIRNODE_CONFIG, otherwise /etc/airnode.toml
	if path := os.Getenv("AIRNODE_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("airnode")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	// Flags set on the command line override file values
	fs.Visit(func(f *pflag.Flag) {
		key := normalizeKey(f.Name)
		v.Set(key, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.PollInterval <= 0 || c.ReportPeriod <= 0 || c.CalibrationPeriod <= 0 || c.CompensationPeriod <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, struct {
			Poll, Report, Calibration, Compensation int
		}{c.PollInterval, c.ReportPeriod, c.CalibrationPeriod, c.CompensationPeriod})
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	for i := 1; i < len(c.Thresholds); i++ {
		if c.Thresholds[i] <= c.Thresholds[i-1] {
			return errFactory.WithMessage(errors.ErrInvalidConfig, "thresholds must be strictly increasing")
		}
	}

	return nil
}

func normalizeKey(flagName string) string {
	key := make([]byte, len(flagName))
	for i := 0; i < len(flagName); i++ {
		if flagName[i] == '-' {
			key[i] = '_'
		} else {
			key[i] = flagName[i]
		}
	}

	return string(key)
}
