// Package metrics records gradcast run metrics on a private Prometheus registry
package metrics

import (
	forecaster "github.com/ceres-egressos/go-semester-forecaster"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of one gradcast run
type Metrics struct {
	registry *prometheus.Registry

	CoursesForecast prometheus.Counter
	CoursesSkipped  *prometheus.CounterVec
	ForecastPeriods prometheus.Gauge
	FitDuration     prometheus.Histogram
}

// New creates and registers all metrics on a new registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CoursesForecast: factory.NewCounter(prometheus.CounterOpts{
			Name: "gradcast_courses_forecast_total",
			Help: "Number of courses with a forecast",
		}),
		CoursesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradcast_courses_skipped_total",
				Help: "Number of courses left without a forecast by reason",
			},
			[]string{"reason"},
		),
		ForecastPeriods: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gradcast_forecast_periods",
			Help: "Number of periods covered by the forecast panel",
		}),
		FitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradcast_fit_duration_seconds",
			Help:    "Time spent fitting a course model",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record adds the outcome of a panel forecast
func (m *Metrics) Record(res *forecaster.Results) {
	if res == nil {
		return
	}
	for _, model := range res.Models {
		m.CoursesForecast.Inc()
		m.FitDuration.Observe(model.FitDuration.Seconds())
	}
	for _, s := range res.Skipped {
		m.CoursesSkipped.WithLabelValues(string(s.Reason)).Inc()
	}
	m.ForecastPeriods.Set(float64(len(res.Periods)))
}

// WriteToTextfile writes the metrics in the text exposition format for the node exporter
// textfile collector
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
