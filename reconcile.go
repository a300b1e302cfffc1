package forecaster

import (
	"math"
	"slices"

	"github.com/ceres-egressos/go-semester-forecaster/period"
)

// Reconciled is the merge of a historical and a forecast panel bounded to a trailing window of
// history followed by the forecast periods
type Reconciled struct {
	Panel        *Panel
	Index        []int // dense 1-based row index in period order
	ForecastOnly []period.Period
}

// Reconcile merges the forecast rows for periods absent from the history into the historical
// panel. History always wins for periods present in both. The output keeps the trailing
// historical rows immediately before the first forecast-only period and every row after it, or
// the last trailing rows when the forecast adds no period.
func Reconcile(historical, forecast *Panel, trailing int) (*Reconciled, error) {
	if historical == nil {
		return nil, ErrEmptyPanel
	}
	if trailing < 1 {
		return nil, ErrInvalidTrailingWindow
	}
	if forecast == nil {
		forecast = &Panel{}
	}

	forecastOnly := period.Difference(forecast.Periods, historical.Periods)
	periods := period.Union(historical.Periods, forecastOnly)

	columns := slices.Clone(historical.Columns)
	for _, c := range forecast.Columns {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}

	start := max(0, len(periods)-trailing)
	if len(forecastOnly) > 0 {
		first, _ := slices.BinarySearchFunc(periods, forecastOnly[0], period.Period.Compare)
		start = max(0, first-trailing)
	}
	periods = periods[start:]

	data := make([][]float64, len(columns))
	for c, name := range columns {
		col := make([]float64, len(periods))
		for r, pd := range periods {
			src := historical
			if !historical.HasPeriod(pd) {
				src = forecast
			}
			v, ok := src.Value(pd, name)
			if !ok {
				v = math.NaN()
			}
			col[r] = v
		}
		data[c] = col
	}

	panel, err := NewPanel(periods, columns, data)
	if err != nil {
		return nil, err
	}
	index := make([]int, len(periods))
	for i := range index {
		index[i] = i + 1
	}
	return &Reconciled{
		Panel:        panel,
		Index:        index,
		ForecastOnly: forecastOnly,
	}, nil
}

// IsForecast reports whether the period was added by the forecast
func (r *Reconciled) IsForecast(pd period.Period) bool {
	_, found := slices.BinarySearchFunc(r.ForecastOnly, pd, period.Period.Compare)
	return found
}

// LastHistorical returns the last historical row before the first forecast-only row. With no
// forecast rows it is the last row.
func (r *Reconciled) LastHistorical() (period.Period, bool) {
	last := period.Period{}
	found := false
	for _, pd := range r.Panel.Periods {
		if r.IsForecast(pd) {
			break
		}
		last, found = pd, true
	}
	return last, found
}
