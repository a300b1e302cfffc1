package main

import (
	forecaster "github.com/ceres-egressos/go-semester-forecaster"
	"github.com/spf13/cobra"
)

type reconcileFlags struct {
	historical string
	forecast   string
	output     string
	metric     string
	trailing   int
}

func reconcileCmd(a *app) *cobra.Command {
	fl := &reconcileFlags{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Merge a persisted forecast panel into a historical panel",
		Long: `Reads both panels and writes the trailing history followed by the forecast-only
periods. History wins for any period present in both panels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(a, fl)
		},
	}

	cmd.Flags().StringVar(&fl.historical, "historical", "", "Historical panel CSV")
	cmd.Flags().StringVar(&fl.forecast, "forecast", "", "Forecast panel CSV")
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "Reconciled panel CSV to write")
	cmd.Flags().StringVarP(&fl.metric, "metric", "m", "", "Metric kind (count, continuous), overrides the config")
	cmd.Flags().IntVar(&fl.trailing, "trailing", 0, "Historical rows kept before the forecast, overrides the config")
	_ = cmd.MarkFlagRequired("historical")
	_ = cmd.MarkFlagRequired("forecast")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runReconcile(a *app, fl *reconcileFlags) error {
	if fl.metric != "" {
		a.cfg.Forecast.Metric = fl.metric
	}
	if fl.trailing != 0 {
		a.cfg.Forecast.TrailingWindow = fl.trailing
	}
	opt, err := a.cfg.ForecasterOptions()
	if err != nil {
		return err
	}

	hist, err := forecaster.ReadPanelFile(fl.historical)
	if err != nil {
		return err
	}
	fcst, err := forecaster.ReadPanelFile(fl.forecast)
	if err != nil {
		return err
	}
	rec, err := forecaster.Reconcile(hist, fcst, opt.TrailingWindow)
	if err != nil {
		return err
	}
	return forecaster.WritePanelFile(fl.output, rec.Panel, outputDecimals(opt.ForecastOptions))
}
