package forecast

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/util"
	"github.com/ceres-egressos/go-semester-forecaster/period"
)

// Model represents a serializeable format of a forecast storing the training window, forecast
// options, fit scores and coefficients
type Model struct {
	TrainStart   period.Period    `json:"train_start"`
	TrainEnd     period.Period    `json:"train_end"`
	Observations int              `json:"observations"`
	Options      *options.Options `json:"options"`
	Scores       *Scores          `json:"scores"`
	Weights      Weights          `json:"weights"`
	FitDuration  time.Duration    `json:"fit_duration_ns"`
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sForecast:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sTraining Window: %s - %s (%d observations)\n",
		prefix, util.IndentExpand(indent, 1),
		m.TrainStart, m.TrainEnd, m.Observations); err != nil {
		return err
	}

	if m.Options != nil {
		if err := m.Options.TablePrint(w, prefix, indent, 1); err != nil {
			return err
		}
	}

	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, util.IndentExpand(indent, 1),
			m.Scores.MAPE,
			m.Scores.MSE,
			m.Scores.R2,
		); err != nil {
			return err
		}
	}

	return m.Weights.tablePrint(w, prefix, indent, 0)
}

// Weights stores the autoregressive coefficients and residual variance of the fit
type Weights struct {
	AR         []float64 `json:"ar"`
	SeasonalAR []float64 `json:"seasonal_ar"`
	Variance   float64   `json:"variance"`
}

func (w Weights) tablePrint(wr io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(wr, "%s%sWeights:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(wr, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sType\tLag\tValue\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	rows := []struct {
		typ  string
		coef []float64
	}{
		{"ar", w.AR},
		{"seasonal_ar", w.SeasonalAR},
	}
	for _, row := range rows {
		for i, c := range row.coef {
			if _, err := fmt.Fprintf(tbl, "%s%s%s\t%d\t%.3f\t\n",
				prefix, util.IndentExpand(indent, indentGrowth+1),
				row.typ, i+1, c); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(tbl, "%s%svariance\t\t%.3f\t\n",
		prefix, util.IndentExpand(indent, indentGrowth+1), w.Variance); err != nil {
		return err
	}
	return tbl.Flush()
}
