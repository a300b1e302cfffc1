package forecaster

import (
	"errors"
	"fmt"

	"github.com/ceres-egressos/go-semester-forecaster/forecast"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
)

const (
	DefaultTrailingWindow  = 10
	DefaultParallelization = 1
)

var ErrInvalidTrailingWindow = errors.New("trailing window must be at least 1")

// Options configures the panel forecaster. ForecastOptions are applied to every course.
type Options struct {
	ForecastOptions *options.Options `json:"forecast_options"`
	TrailingWindow  int              `json:"trailing_window"`
	Parallelization int              `json:"parallelization"`

	// NewModel builds the model for each course, defaults to SARIMA
	NewModel forecast.ModelFunc `json:"-"`
}

// NewDefaultOptions returns the default options for a metric
func NewDefaultOptions(metric options.Metric) *Options {
	return &Options{
		ForecastOptions: options.NewDefaultOptions(metric),
		TrailingWindow:  DefaultTrailingWindow,
		Parallelization: DefaultParallelization,
		NewModel:        forecast.NewSARIMA,
	}
}

// Validate fills in unset options and validates the forecast options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(options.MetricCount), nil
	}
	fOpt, err := o.ForecastOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid forecast options, %w", err)
	}
	o.ForecastOptions = fOpt
	if o.TrailingWindow == 0 {
		o.TrailingWindow = DefaultTrailingWindow
	}
	if o.TrailingWindow < 1 {
		return nil, fmt.Errorf("got %d, %w", o.TrailingWindow, ErrInvalidTrailingWindow)
	}
	if o.Parallelization < 1 {
		o.Parallelization = DefaultParallelization
	}
	if o.NewModel == nil {
		o.NewModel = forecast.NewSARIMA
	}
	return o, nil
}
