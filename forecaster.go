package forecaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/ceres-egressos/go-semester-forecaster/forecast"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/ceres-egressos/go-semester-forecaster/timedataset"
	"golang.org/x/sync/errgroup"
)

// Forecaster forecasts every course of a historical panel and reconciles the forecasts with
// the history
type Forecaster struct {
	opt *Options
}

// New creates a new instance of a Forecaster using the provided options. If no options are
// provided the count defaults are used.
func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Forecaster{opt: opt}, nil
}

func (f *Forecaster) Options() *Options {
	return f.opt
}

type courseOutcome struct {
	forecast *timedataset.TimeDataset
	model    forecast.Model
	skipped  *SkippedCourse
}

// ForecastPanel forecasts each course of the historical panel independently. A course that
// cannot be forecast is recorded in the results and never fails the batch. Only a missing
// panel or a cancelled context returns an error.
func (f *Forecaster) ForecastPanel(ctx context.Context, historical *Panel) (*Results, error) {
	if f == nil {
		return nil, errors.New("uninitialized forecaster")
	}
	if historical == nil {
		return nil, ErrEmptyPanel
	}

	outcomes := make([]courseOutcome, len(historical.Columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opt.Parallelization)
	for i, course := range historical.Columns {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = f.forecastCourse(historical, course)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Results{
		Models:  make(map[string]forecast.Model),
		Skipped: []SkippedCourse{},
	}
	var columns []string
	var windows [][]period.Period
	for i, out := range outcomes {
		if out.skipped != nil {
			res.Skipped = append(res.Skipped, *out.skipped)
			continue
		}
		course := historical.Columns[i]
		columns = append(columns, course)
		windows = append(windows, out.forecast.P)
		res.Models[course] = out.model
	}
	res.Periods = period.Union(windows...)

	data := make([][]float64, 0, len(columns))
	for _, out := range outcomes {
		if out.skipped != nil {
			continue
		}
		col := make([]float64, len(res.Periods))
		for r := range col {
			col[r] = math.NaN()
		}
		for j, pd := range out.forecast.P {
			r, _ := slices.BinarySearchFunc(res.Periods, pd, period.Period.Compare)
			col[r] = out.forecast.Y[j]
		}
		data = append(data, col)
	}

	fp, err := NewPanel(res.Periods, columns, data)
	if err != nil {
		return nil, fmt.Errorf("unable to assemble forecast panel, %w", err)
	}
	res.Forecast = fp
	return res, nil
}

// forecastCourse fits and predicts one course with its own model instance
func (f *Forecaster) forecastCourse(historical *Panel, course string) (out courseOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = skip(course, fmt.Errorf("panic, %v, %w", r, forecast.ErrFitFailure))
		}
	}()

	td, err := courseSeries(historical, course, f.opt.ForecastOptions.Metric)
	if err != nil {
		return skip(course, err)
	}

	opt := *f.opt.ForecastOptions
	fc, err := forecast.NewWithModel(&opt, f.opt.NewModel)
	if err != nil {
		return skip(course, err)
	}
	if err := fc.Fit(td); err != nil {
		return skip(course, err)
	}
	res, err := fc.Predict()
	if err != nil {
		return skip(course, err)
	}
	model, err := fc.Model()
	if err != nil {
		return skip(course, err)
	}
	return courseOutcome{forecast: res, model: model}
}

// courseSeries spans count courses over the whole panel axis with blank cells as zeros so every
// count forecast starts after the last panel period. Continuous courses keep only their cells.
func courseSeries(historical *Panel, course string, metric options.Metric) (*timedataset.TimeDataset, error) {
	if metric == options.MetricCount {
		return historical.FilledSeries(course, metric.FillValue())
	}
	return historical.Series(course)
}

func skip(course string, err error) courseOutcome {
	reason := SkipFitFailure
	if errors.Is(err, forecast.ErrInsufficientData) {
		reason = SkipInsufficientData
	}
	slog.Warn("skipping course forecast", "course", course, "reason", reason, "error", err.Error())
	return courseOutcome{
		skipped: &SkippedCourse{Course: course, Reason: reason, Err: err},
	}
}

// Run forecasts the historical panel and reconciles the forecasts with it
func (f *Forecaster) Run(ctx context.Context, historical *Panel) (*Reconciled, *Results, error) {
	res, err := f.ForecastPanel(ctx, historical)
	if err != nil {
		return nil, nil, err
	}
	rec, err := Reconcile(historical, res.Forecast, f.opt.TrailingWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to reconcile forecasts, %w", err)
	}
	return rec, res, nil
}
