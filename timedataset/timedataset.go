package timedataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/ceres-egressos/go-semester-forecaster/period"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("period feature is not strictly increasing")
	ErrDatasetLenMismatch = errors.New("period feature has a different length than observations")
)

// TimeDataset represents a semester series storing a slice of periods and values.
// Both must be of the same length and the periods strictly increasing.
type TimeDataset struct {
	P []period.Period
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a period and value slice.
// The inputs are copied.
func NewUnivariateDataset(p []period.Period, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(p) != len(y) {
		return nil, fmt.Errorf(
			"period feature has length of %d, but values has a length of %d, %w",
			len(p), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(p); i++ {
		if !p[i].After(p[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
	}

	pSeries := make([]period.Period, len(p))
	ySeries := make([]float64, len(y))
	copy(pSeries, p)
	copy(ySeries, y)
	return &TimeDataset{
		P: pSeries,
		Y: ySeries,
	}, nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}

func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	pSeries := make([]period.Period, len(td.P))
	ySeries := make([]float64, len(td.Y))
	copy(pSeries, td.P)
	copy(ySeries, td.Y)
	return &TimeDataset{
		P: pSeries,
		Y: ySeries,
	}
}

// DropNan returns a new dataset without the NaN observations
func (td *TimeDataset) DropNan() *TimeDataset {
	if td == nil {
		return nil
	}
	out := &TimeDataset{
		P: make([]period.Period, 0, len(td.P)),
		Y: make([]float64, 0, len(td.Y)),
	}
	for i := 0; i < len(td.Y); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		out.P = append(out.P, td.P[i])
		out.Y = append(out.Y, td.Y[i])
	}
	return out
}

// CountValid returns the number of non-NaN observations
func (td *TimeDataset) CountValid() int {
	if td == nil {
		return 0
	}
	var cnt int
	for _, v := range td.Y {
		if !math.IsNaN(v) {
			cnt++
		}
	}
	return cnt
}

// Resample places the dataset onto a gap-free half-year axis spanning its first to last period.
// Periods that have no observation take the fill value.
func (td *TimeDataset) Resample(fill float64) *TimeDataset {
	if td == nil || len(td.P) == 0 {
		return &TimeDataset{P: []period.Period{}, Y: []float64{}}
	}
	start := PeriodSlice(td.P).StartPeriod()
	axis := period.Range(start, PeriodSlice(td.P).EndPeriod())

	y := make([]float64, len(axis))
	for i := range y {
		y[i] = fill
	}
	for i, p := range td.P {
		y[p.Sub(start)] = td.Y[i]
	}
	return &TimeDataset{P: axis, Y: y}
}

// ForwardFill returns a new dataset with each NaN replaced by the last non-NaN value before it.
// Leading NaNs are left untouched.
func (td *TimeDataset) ForwardFill() *TimeDataset {
	out := td.Copy()
	if out == nil {
		return nil
	}
	last := math.NaN()
	for i, v := range out.Y {
		if math.IsNaN(v) {
			out.Y[i] = last
			continue
		}
		last = v
	}
	return out
}

// TrimLeading returns the dataset starting at the first observation satisfying keep. If no
// observation satisfies keep an empty dataset is returned.
func (td *TimeDataset) TrimLeading(keep func(float64) bool) *TimeDataset {
	if td == nil {
		return &TimeDataset{P: []period.Period{}, Y: []float64{}}
	}
	for i, v := range td.Y {
		if keep(v) {
			return (&TimeDataset{P: td.P[i:], Y: td.Y[i:]}).Copy()
		}
	}
	return &TimeDataset{P: []period.Period{}, Y: []float64{}}
}
