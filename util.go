package forecaster

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoReconciledPanel = errors.New("no reconciled panel to plot")

// missingValue is the echarts placeholder for a gap in a line
const missingValue = "-"

// LineReconciled generates an echart line chart of the reconciled courses. History is drawn
// solid and the forecast dashed starting from the last historical row so both segments join.
// The x axis follows the dense index with period labels as the tick text. All columns are
// plotted when none are given.
func LineReconciled(title, yLabel string, r *Reconciled, columns ...string) (*charts.Line, error) {
	if r == nil || r.Panel == nil {
		return nil, ErrNoReconciledPanel
	}
	if len(columns) == 0 {
		columns = r.Panel.Columns
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "period",
				Type: "category",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: yLabel,
			},
		),
	)
	line.SetXAxis(period.Labels(r.Panel.Periods))

	lastHist, hasHist := r.LastHistorical()
	for _, col := range columns {
		values, ok := r.Panel.Column(col)
		if !ok {
			return nil, fmt.Errorf("%q, %w", col, ErrUnknownColumn)
		}

		hist := make([]opts.LineData, 0, len(values))
		fcst := make([]opts.LineData, 0, len(values))
		for i, pd := range r.Panel.Periods {
			name := fmt.Sprintf("#%d %s", r.Index[i], pd.Label())
			histPoint := opts.LineData{Name: name, Value: missingValue}
			fcstPoint := opts.LineData{Name: name, Value: missingValue}

			isForecast := r.IsForecast(pd)
			if !math.IsNaN(values[i]) {
				if !isForecast {
					histPoint.Value = values[i]
				}
				if isForecast || (hasHist && pd == lastHist) {
					fcstPoint.Value = values[i]
				}
			}
			hist = append(hist, histPoint)
			fcst = append(fcst, fcstPoint)
		}

		name := CourseName(col)
		line.AddSeries(name, hist)
		line.AddSeries(name+" (forecast)", fcst,
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
		)
	}
	return line, nil
}

// PlotReconciled renders a page with one chart per column group. Every column is plotted on a
// single chart when no groups are given.
func PlotReconciled(w io.Writer, title, yLabel string, r *Reconciled, groups ...[]string) error {
	if len(groups) == 0 {
		groups = [][]string{nil}
	}
	page := components.NewPage()
	for i, group := range groups {
		chartTitle := title
		if len(groups) > 1 {
			chartTitle = fmt.Sprintf("%s (%d)", title, i+1)
		}
		line, err := LineReconciled(chartTitle, yLabel, r, group...)
		if err != nil {
			return err
		}
		page.AddCharts(line)
	}
	return page.Render(w)
}
