package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	forecaster "github.com/ceres-egressos/go-semester-forecaster"
	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"github.com/ceres-egressos/go-semester-forecaster/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var ErrUnknownProfile = errors.New("unknown profile mode")

type forecastFlags struct {
	input       string
	output      string
	metric      string
	models      string
	plot        string
	metricsFile string
	profile     string
	profileDir  string
	exclude     []string
	summary     bool
}

func forecastCmd(a *app) *cobra.Command {
	fl := &forecastFlags{}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast every course of a historical panel",
		Long: `Reads the historical panel CSV, forecasts each course independently and writes the
reconciled panel of the trailing history followed by the forecast periods.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, a, fl)
		},
	}

	cmd.Flags().StringVarP(&fl.input, "input", "i", "", "Historical panel CSV")
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "Reconciled panel CSV to write")
	cmd.Flags().StringVarP(&fl.metric, "metric", "m", "", "Metric kind (count, continuous), overrides the config")
	cmd.Flags().StringVar(&fl.models, "models", "", "Write the per-course models as JSON")
	cmd.Flags().StringVar(&fl.plot, "plot", "", "Write an HTML chart of the reconciled panel")
	cmd.Flags().StringVar(&fl.metricsFile, "metrics-file", "", "Write run metrics in the Prometheus text format")
	cmd.Flags().StringVar(&fl.profile, "profile", "", "Profile the run (cpu, mem)")
	cmd.Flags().StringVar(&fl.profileDir, "profile-dir", ".", "Directory for profile output")
	cmd.Flags().StringSliceVar(&fl.exclude, "exclude", nil, "Drop courses containing any of the substrings")
	cmd.Flags().BoolVar(&fl.summary, "summary", false, "Print a summary of each course model")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runForecast(cmd *cobra.Command, a *app, fl *forecastFlags) error {
	stop, err := startProfile(fl.profile, fl.profileDir)
	if err != nil {
		return err
	}
	defer stop()

	cfg := a.cfg
	if fl.metric != "" {
		cfg.Forecast.Metric = fl.metric
	}
	cfg.Exclude = append(cfg.Exclude, fl.exclude...)

	opt, err := cfg.ForecasterOptions()
	if err != nil {
		return err
	}

	hist, err := forecaster.ReadPanelFile(fl.input)
	if err != nil {
		return err
	}
	hist = hist.DropColumns(cfg.Excluded)

	f, err := forecaster.New(opt)
	if err != nil {
		return err
	}
	rec, res, err := f.Run(cmd.Context(), hist)
	if err != nil {
		return err
	}

	if err := forecaster.WritePanelFile(fl.output, rec.Panel, outputDecimals(opt.ForecastOptions)); err != nil {
		return err
	}

	if fl.models != "" {
		if err := writeModels(fl.models, res); err != nil {
			return err
		}
	}
	if fl.plot != "" {
		if err := writePlot(fl.plot, opt.ForecastOptions.Metric, rec); err != nil {
			return err
		}
	}
	if fl.metricsFile != "" {
		m := metrics.New()
		m.Record(res)
		if err := m.WriteToTextfile(fl.metricsFile); err != nil {
			return fmt.Errorf("unable to write metrics, %w", err)
		}
	}
	if fl.summary {
		if err := printSummary(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	}

	slog.Info("forecast complete",
		"courses", len(res.Models),
		"skipped", len(res.Skipped),
		"forecast_periods", len(rec.ForecastOnly),
		"output", fl.output,
	)
	return nil
}

// startProfile starts the requested profile and returns the function stopping it
func startProfile(mode, dir string) (func(), error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	default:
		return nil, fmt.Errorf("%q, %w", mode, ErrUnknownProfile)
	}
	p := profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook)
	return p.Stop, nil
}

// outputDecimals keeps counts whole and rounds continuous metrics to the configured decimals
func outputDecimals(opt *options.Options) int {
	if opt.Metric == options.MetricCount {
		return 0
	}
	return opt.Decimals
}

func writeModels(path string, res *forecaster.Results) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode models, %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("unable to write models, %w", err)
	}
	return nil
}

func writePlot(path string, metric options.Metric, rec *forecaster.Reconciled) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	defer f.Close()
	return forecaster.PlotReconciled(f, "Course forecasts", metric.String(), rec)
}

func printSummary(w io.Writer, res *forecaster.Results) error {
	courses := make([]string, 0, len(res.Models))
	for course := range res.Models {
		courses = append(courses, course)
	}
	slices.Sort(courses)
	for _, course := range courses {
		if _, err := fmt.Fprintf(w, "%s\n", course); err != nil {
			return err
		}
		if err := res.Models[course].TablePrint(w, "  ", "  "); err != nil {
			return err
		}
	}
	for _, s := range res.Skipped {
		if _, err := fmt.Fprintf(w, "%s skipped: %s\n", s.Course, s.Reason); err != nil {
			return err
		}
	}
	return nil
}
