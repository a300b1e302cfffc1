package options

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ceres-egressos/go-semester-forecaster/forecast/util"
)

// Metric selects how a series is resampled, trimmed, counted and post-processed
type Metric string

const (
	// MetricCount is an integer count of events such as graduates per semester
	MetricCount Metric = "count"
	// MetricContinuous is a real valued measure such as mean time to degree
	MetricContinuous Metric = "continuous"
)

var ErrUnknownMetric = errors.New("unknown metric")

func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricCount:
		return MetricCount, nil
	case MetricContinuous:
		return MetricContinuous, nil
	}
	return "", fmt.Errorf("%q, %w", s, ErrUnknownMetric)
}

func (m Metric) String() string {
	return string(m)
}

// FillValue is the value assigned to periods missing from the series
func (m Metric) FillValue() float64 {
	if m == MetricContinuous {
		return math.NaN()
	}
	return 0
}

// Keep reports whether the series may start at a value. Everything before the first kept
// value is dropped.
func (m Metric) Keep(v float64) bool {
	if m == MetricContinuous {
		return !math.IsNaN(v) && v != 0
	}
	return v > 0
}

// Observations counts the points that count toward the minimum number of observations
func (m Metric) Observations(y []float64) int {
	if m != MetricContinuous {
		return len(y)
	}
	var cnt int
	for _, v := range y {
		if !math.IsNaN(v) {
			cnt++
		}
	}
	return cnt
}

// PostProcess clamps and rounds counts to non-negative integers and rounds continuous values
// to the given number of decimals. Negative zero is returned as zero.
func (m Metric) PostProcess(v float64, decimals int) float64 {
	if m == MetricContinuous {
		v = util.RoundTo(v, decimals)
	} else {
		v = math.Round(math.Max(v, 0))
	}
	if v == 0 {
		return 0
	}
	return v
}
