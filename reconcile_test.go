package forecaster

import (
	"math"
	"testing"

	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/ceres-egressos/go-semester-forecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historicalPanel(t *testing.T, n int) *Panel {
	t.Helper()
	p := timedataset.GenerateP(period.MustEncode(2015, 1), n)
	return mustPanel(t, p, []string{"a", "b"},
		timedataset.GenerateTrendY(n, 1, 1),
		timedataset.GenerateConstY(n, 7),
	)
}

func TestReconcileEmptyForecast(t *testing.T) {
	testData := map[string]struct {
		rows     int
		forecast *Panel
		expected int
	}{
		"nil forecast windowed":   {rows: 14, expected: 10},
		"empty forecast windowed": {rows: 14, forecast: &Panel{}, expected: 10},
		"shorter than window":     {rows: 6, expected: 6},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			h := historicalPanel(t, td.rows)
			rec, err := Reconcile(h, td.forecast, 10)
			require.Nil(t, err)

			assert.Empty(t, rec.ForecastOnly)
			assert.Equal(t, h.Periods[td.rows-td.expected:], rec.Panel.Periods)
			assert.Equal(t, h.Columns, rec.Panel.Columns)
			for c := range h.Columns {
				assert.Equal(t, h.Data[c][td.rows-td.expected:], rec.Panel.Data[c])
			}
			require.Len(t, rec.Index, td.expected)
			assert.Equal(t, 1, rec.Index[0])
			assert.Equal(t, td.expected, rec.Index[len(rec.Index)-1])

			last, ok := rec.LastHistorical()
			assert.True(t, ok)
			assert.Equal(t, h.Periods[td.rows-1], last)
		})
	}
}

func TestReconcileOverlap(t *testing.T) {
	h := mustPanel(t, periods("2023.1", "2023.2", "2024.1"), []string{"a"},
		[]float64{1, 2, 3},
	)
	f := mustPanel(t, periods("2024.1", "2024.2", "2025.1"), []string{"a", "c"},
		[]float64{100, 4, 5},
		[]float64{9, 8, 7},
	)

	rec, err := Reconcile(h, f, 10)
	require.Nil(t, err)

	assert.Equal(t, periods("2024.2", "2025.1"), rec.ForecastOnly)
	assert.Equal(t, periods("2023.1", "2023.2", "2024.1", "2024.2", "2025.1"), rec.Panel.Periods)
	assert.Equal(t, []string{"a", "c"}, rec.Panel.Columns)

	v, ok := rec.Panel.Value(period.MustEncode(2024, 1), "a")
	require.True(t, ok)
	assert.Equal(t, 3.0, v, "history wins on overlap")

	assertColumnWithNaN(t, []float64{1, 2, 3, 4, 5}, rec.Panel.Data[0])
	assertColumnWithNaN(t, []float64{math.NaN(), math.NaN(), math.NaN(), 8, 7}, rec.Panel.Data[1])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rec.Index)

	assert.True(t, rec.IsForecast(period.MustEncode(2024, 2)))
	assert.False(t, rec.IsForecast(period.MustEncode(2024, 1)))
	last, ok := rec.LastHistorical()
	assert.True(t, ok)
	assert.Equal(t, period.MustEncode(2024, 1), last)
}

func TestReconcileTrailingWindow(t *testing.T) {
	h := historicalPanel(t, 8)
	last := timedataset.PeriodSlice(h.Periods).EndPeriod()
	window := period.Window(last, 3)
	f := mustPanel(t, window, []string{"a"}, []float64{9, 10, 11})

	rec, err := Reconcile(h, f, 2)
	require.Nil(t, err)

	expected := append([]period.Period{last.Next(-1), last}, window...)
	assert.Equal(t, expected, rec.Panel.Periods)
	assert.Equal(t, window, rec.ForecastOnly)
	assert.True(t, period.IsStrictlyIncreasing(rec.Panel.Periods))
	assertColumnWithNaN(t, []float64{7, 8, 9, 10, 11}, rec.Panel.Data[0])
	assertColumnWithNaN(t, []float64{7, 7, math.NaN(), math.NaN(), math.NaN()}, rec.Panel.Data[1])
}

func TestReconcileForecastOnlyOnce(t *testing.T) {
	h := historicalPanel(t, 4)
	f := mustPanel(t, periods("2016.2", "2017.1", "2017.2"), []string{"a"}, []float64{1, 2, 3})

	rec, err := Reconcile(h, f, 10)
	require.Nil(t, err)
	assert.Equal(t, periods("2017.1", "2017.2"), rec.ForecastOnly)

	counts := make(map[period.Period]int)
	for _, pd := range rec.Panel.Periods {
		counts[pd]++
	}
	for _, pd := range rec.ForecastOnly {
		assert.Equal(t, 1, counts[pd])
	}
	assert.Len(t, rec.Panel.Periods, 6)
}

func TestReconcileErrors(t *testing.T) {
	_, err := Reconcile(nil, nil, 10)
	assert.ErrorIs(t, err, ErrEmptyPanel)

	_, err = Reconcile(historicalPanel(t, 3), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidTrailingWindow)
}
