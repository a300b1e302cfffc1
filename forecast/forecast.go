package forecast

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/util"
	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/ceres-egressos/go-semester-forecaster/sarima"
	"github.com/ceres-egressos/go-semester-forecaster/timedataset"
)

var (
	ErrUninitializedForecast = errors.New("uninitialized forecast")
	ErrInsufficientData      = errors.New("insufficient data to forecast")
	ErrFitFailure            = errors.New("model fit failure")
	ErrUntrainedForecast     = errors.New("forecast has not been trained yet")
)

// SeasonalModel is a univariate model fit on a contiguous series. Predict takes an inclusive
// index range on the training axis where indices at or past the training length are forecasts.
type SeasonalModel interface {
	Fit(y []float64) error
	Predict(start, end int) ([]float64, error)
}

// ModelFunc builds a new unfitted model for the given order
type ModelFunc func(order sarima.Order) (SeasonalModel, error)

// NewSARIMA is the default ModelFunc
func NewSARIMA(order sarima.Order) (SeasonalModel, error) {
	m, err := sarima.New(order)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Forecast fits a seasonal model on one course series and projects the periods following the
// last observed period
type Forecast struct {
	opt      *options.Options
	newModel ModelFunc

	model  SeasonalModel
	window *timedataset.TimeDataset // trimmed training window, NaNs retained
	scores *Scores

	fitDuration time.Duration
	trained     bool
}

// New creates a new forecast using the SARIMA model. If no options are provided the count
// defaults are used.
func New(opt *options.Options) (*Forecast, error) {
	return NewWithModel(opt, NewSARIMA)
}

// NewWithModel creates a new forecast that builds its model with fn
func NewWithModel(opt *options.Options, fn ModelFunc) (*Forecast, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if fn == nil {
		fn = NewSARIMA
	}
	return &Forecast{opt: opt, newModel: fn}, nil
}

// Fit resamples the series onto a contiguous half-year axis, trims the leading periods that
// carry no signal and fits the model on the remaining window
func (f *Forecast) Fit(td *timedataset.TimeDataset) error {
	if f == nil {
		return ErrUninitializedForecast
	}
	f.trained = false
	if td.Len() == 0 {
		return fmt.Errorf("empty series, %w", ErrInsufficientData)
	}

	metric := f.opt.Metric
	window := td.Resample(metric.FillValue()).TrimLeading(metric.Keep)
	if window.Len() == 0 {
		return fmt.Errorf("no usable %s observation, %w", metric, ErrInsufficientData)
	}
	if obs := metric.Observations(window.Y); obs < f.opt.MinObservations {
		return fmt.Errorf("got %d observations, need %d, %w", obs, f.opt.MinObservations, ErrInsufficientData)
	}

	train := window
	if metric == options.MetricContinuous {
		train = window.ForwardFill()
	}

	model, err := f.newModel(f.opt.SARIMAOrder())
	if err != nil {
		return fmt.Errorf("%w, %w", ErrFitFailure, err)
	}

	start := time.Now()
	if err := fitModel(model, train.Y); err != nil {
		return fmt.Errorf("%w, %w", ErrFitFailure, err)
	}
	f.fitDuration = time.Since(start)

	fitted, err := predictModel(model, 0, train.Len()-1)
	if err != nil {
		return fmt.Errorf("in-sample prediction, %w, %w", ErrFitFailure, err)
	}
	scores, err := NewScores(fitted, window.Y)
	if err != nil {
		return fmt.Errorf("%w, %w", ErrFitFailure, err)
	}

	f.model = model
	f.window = window
	f.scores = scores
	f.trained = true
	return nil
}

// Predict returns the post-processed forecast for the horizon following the training window
func (f *Forecast) Predict() (*timedataset.TimeDataset, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, ErrUntrainedForecast
	}

	n := f.window.Len()
	h := f.opt.Horizon
	raw, err := predictModel(f.model, n, n+h-1)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrFitFailure, err)
	}
	if len(raw) != h {
		return nil, fmt.Errorf("expected %d forecasts, got %d, %w", h, len(raw), ErrFitFailure)
	}

	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite forecast at step %d, %w", i+1, ErrFitFailure)
		}
	}
	y := util.SliceMap(slices.Clone(raw), func(v float64) float64 {
		return f.opt.Metric.PostProcess(v, f.opt.Decimals)
	})
	return timedataset.NewUnivariateDataset(period.Window(f.TrainEnd(), h), y)
}

func fitModel(m SeasonalModel, y []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during fit, %v", r)
		}
	}()
	return m.Fit(y)
}

func predictModel(m SeasonalModel, start, end int) (res []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic during predict, %v", r)
		}
	}()
	return m.Predict(start, end)
}

// TrainStart returns the first period of the training window
func (f *Forecast) TrainStart() period.Period {
	if f == nil || f.window == nil {
		return period.Period{}
	}
	return timedataset.PeriodSlice(f.window.P).StartPeriod()
}

// TrainEnd returns the last observed period of the training window
func (f *Forecast) TrainEnd() period.Period {
	if f == nil || f.window == nil {
		return period.Period{}
	}
	return timedataset.PeriodSlice(f.window.P).EndPeriod()
}

func (f *Forecast) Options() *options.Options {
	return f.opt
}

// Scores returns the in-sample fit scores
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

func (f *Forecast) FitDuration() time.Duration {
	return f.fitDuration
}

// coefficientModel is implemented by models exposing their autoregressive estimates
type coefficientModel interface {
	ARCoeffs() []float64
	SARCoeffs() []float64
	Variance() float64
}

// Model returns a serializeable summary of the trained forecast
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	if !f.trained {
		return Model{}, ErrUntrainedForecast
	}
	m := Model{
		TrainStart:   f.TrainStart(),
		TrainEnd:     f.TrainEnd(),
		Observations: f.opt.Metric.Observations(f.window.Y),
		Options:      f.opt,
		Scores:       f.scores,
		FitDuration:  f.fitDuration,
	}
	if cm, ok := f.model.(coefficientModel); ok {
		m.Weights = Weights{
			AR:         cm.ARCoeffs(),
			SeasonalAR: cm.SARCoeffs(),
			Variance:   cm.Variance(),
		}
	}
	return m, nil
}
