// Package options contains the options for forecasting a single semester series
package options

import (
	"errors"
	"fmt"
	"io"

	"github.com/ceres-egressos/go-semester-forecaster/forecast/util"
	"github.com/ceres-egressos/go-semester-forecaster/sarima"
)

const (
	DefaultHorizon         = 3
	DefaultMinObservations = 10
	DefaultDecimals        = 2
)

var (
	ErrInvalidHorizon         = errors.New("horizon must be at least 1")
	ErrInvalidMinObservations = errors.New("minimum observations must be at least 1")
	ErrInvalidDecimals        = errors.New("decimals must not be negative")
)

// Order is the regular (p, d, q) order of the model
type Order struct {
	P int `json:"p" yaml:"p"`
	D int `json:"d" yaml:"d"`
	Q int `json:"q" yaml:"q"`
}

// SeasonalOrder is the seasonal (P, D, Q, m) order of the model
type SeasonalOrder struct {
	P int `json:"p" yaml:"p"`
	D int `json:"d" yaml:"d"`
	Q int `json:"q" yaml:"q"`
	M int `json:"m" yaml:"m"`
}

// Options configures the forecast of one course series. The order defaults to
// SARIMA(1,1,0)(1,0,0,2) forecasting three half-year periods. Decimals only applies to
// continuous metrics and is taken as given, so a zero value rounds to whole numbers. Use
// NewDefaultOptions for the default of two decimals.
type Options struct {
	Metric          Metric        `json:"metric"`
	Order           Order         `json:"order"`
	SeasonalOrder   SeasonalOrder `json:"seasonal_order"`
	Horizon         int           `json:"horizon"`
	MinObservations int           `json:"min_observations"`
	Decimals        int           `json:"decimals"`
}

// NewDefaultOptions returns a set of default forecast options for the metric
func NewDefaultOptions(metric Metric) *Options {
	def := sarima.DefaultOrder()
	return &Options{
		Metric:          metric,
		Order:           Order{P: def.P, D: def.D, Q: def.Q},
		SeasonalOrder:   SeasonalOrder{P: def.SP, D: def.SD, Q: def.SQ, M: def.M},
		Horizon:         DefaultHorizon,
		MinObservations: DefaultMinObservations,
		Decimals:        DefaultDecimals,
	}
}

// Validate fills in unset horizon, minimum observations and metric, replaces an entirely unset
// regular and seasonal order with the default order and checks the remaining options,
// returning the options for chaining
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(MetricCount), nil
	}
	if o.Metric == "" {
		o.Metric = MetricCount
	}
	if _, err := ParseMetric(string(o.Metric)); err != nil {
		return nil, err
	}
	if o.Horizon == 0 {
		o.Horizon = DefaultHorizon
	}
	if o.Horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", o.Horizon, ErrInvalidHorizon)
	}
	if o.MinObservations == 0 {
		o.MinObservations = DefaultMinObservations
	}
	if o.MinObservations < 1 {
		return nil, fmt.Errorf("got %d, %w", o.MinObservations, ErrInvalidMinObservations)
	}
	if o.Order == (Order{}) && o.SeasonalOrder == (SeasonalOrder{}) {
		def := NewDefaultOptions(o.Metric)
		o.Order = def.Order
		o.SeasonalOrder = def.SeasonalOrder
	}
	if o.Decimals < 0 {
		return nil, fmt.Errorf("got %d, %w", o.Decimals, ErrInvalidDecimals)
	}
	if err := o.SARIMAOrder().Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// SARIMAOrder combines the regular and seasonal order
func (o *Options) SARIMAOrder() sarima.Order {
	return sarima.Order{
		P:  o.Order.P,
		D:  o.Order.D,
		Q:  o.Order.Q,
		SP: o.SeasonalOrder.P,
		SD: o.SeasonalOrder.D,
		SQ: o.SeasonalOrder.Q,
		M:  o.SeasonalOrder.M,
	}
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sOptions:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sMetric: %s    Order: SARIMA%s\n",
		prefix, util.IndentExpand(indent, indentGrowth+1),
		o.Metric, o.SARIMAOrder()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sHorizon: %d    Min Observations: %d    Decimals: %d\n",
		prefix, util.IndentExpand(indent, indentGrowth+1),
		o.Horizon, o.MinObservations, o.Decimals)
	return err
}
