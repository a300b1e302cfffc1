// Package config loads the gradcast configuration from a YAML file and GRADCAST_ environment
// variables
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	forecaster "github.com/ceres-egressos/go-semester-forecaster"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GRADCAST_"

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// Forecast holds the forecasting settings shared by every course
type Forecast struct {
	Metric          string                `yaml:"metric" env:"METRIC"`
	Horizon         int                   `yaml:"horizon" env:"HORIZON"`
	MinObservations int                   `yaml:"min_observations" env:"MIN_OBSERVATIONS"`
	Decimals        int                   `yaml:"decimals" env:"DECIMALS"`
	Order           options.Order         `yaml:"order"`
	SeasonalOrder   options.SeasonalOrder `yaml:"seasonal_order"`
	TrailingWindow  int                   `yaml:"trailing_window" env:"TRAILING_WINDOW"`
	Parallelization int                   `yaml:"parallelization" env:"PARALLELIZATION"`
}

// Logging selects the slog handler
type Logging struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Config is the gradcast configuration
type Config struct {
	Forecast Forecast `yaml:"forecast"`
	Logging  Logging  `yaml:"logging"`

	// Exclude drops every course containing one of the substrings before forecasting
	Exclude []string `yaml:"exclude" env:"EXCLUDE"`
}

// Default returns the configuration used when no file or environment override is present
func Default() *Config {
	fOpt := forecaster.NewDefaultOptions(options.MetricCount)
	return &Config{
		Forecast: Forecast{
			Metric:          string(fOpt.ForecastOptions.Metric),
			Horizon:         fOpt.ForecastOptions.Horizon,
			MinObservations: fOpt.ForecastOptions.MinObservations,
			Decimals:        fOpt.ForecastOptions.Decimals,
			Order:           fOpt.ForecastOptions.Order,
			SeasonalOrder:   fOpt.ForecastOptions.SeasonalOrder,
			TrailingWindow:  fOpt.TrailingWindow,
			Parallelization: fOpt.Parallelization,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load starts from the defaults, applies the YAML file if a path is given and then any
// GRADCAST_ environment variables, and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config, %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}
	return cfg, nil
}

// Validate checks the logging settings and the forecaster options derived from the config
func (c *Config) Validate() error {
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("got %q, %w", c.Logging.Format, ErrInvalidLogFormat)
	}
	_, err := c.ForecasterOptions()
	return err
}

// ForecasterOptions converts the forecast section into validated panel forecaster options
func (c *Config) ForecasterOptions() (*forecaster.Options, error) {
	metric, err := options.ParseMetric(c.Forecast.Metric)
	if err != nil {
		return nil, err
	}
	opt := &forecaster.Options{
		ForecastOptions: &options.Options{
			Metric:          metric,
			Order:           c.Forecast.Order,
			SeasonalOrder:   c.Forecast.SeasonalOrder,
			Horizon:         c.Forecast.Horizon,
			MinObservations: c.Forecast.MinObservations,
			Decimals:        c.Forecast.Decimals,
		},
		TrailingWindow:  c.Forecast.TrailingWindow,
		Parallelization: c.Forecast.Parallelization,
	}
	return opt.Validate()
}

// Excluded reports whether the course matches any of the exclude substrings
func (c *Config) Excluded(course string) bool {
	for _, sub := range c.Exclude {
		if sub != "" && strings.Contains(course, sub) {
			return true
		}
	}
	return false
}

func (l Logging) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("got %q, %w", l.Level, ErrInvalidLogLevel)
	}
	return level, nil
}

// NewLogger builds a text or json slog logger writing to w at the configured level
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}
	hOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hOpts))
	}
	return slog.New(slog.NewTextHandler(w, hOpts))
}
