package forecaster

import (
	"github.com/ceres-egressos/go-semester-forecaster/forecast"
	"github.com/ceres-egressos/go-semester-forecaster/period"
)

// SkipReason classifies why a course has no forecast
type SkipReason string

const (
	SkipInsufficientData SkipReason = "insufficient_data"
	SkipFitFailure       SkipReason = "fit_failure"
)

// SkippedCourse records a course left out of the forecast panel
type SkippedCourse struct {
	Course string     `json:"course"`
	Reason SkipReason `json:"reason"`
	Err    error      `json:"-"`
}

// Results of forecasting a panel. Courses without a forecast are absent from the forecast panel
// and listed in Skipped.
type Results struct {
	Forecast *Panel                    `json:"-"`
	Periods  []period.Period           `json:"periods"`
	Models   map[string]forecast.Model `json:"models"`
	Skipped  []SkippedCourse           `json:"skipped"`
}
