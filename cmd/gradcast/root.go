package main

import (
	"log/slog"

	"github.com/ceres-egressos/go-semester-forecaster/internal/config"
	"github.com/spf13/cobra"
)

// app carries the state shared by the subcommands of one invocation
type app struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "gradcast",
		Short: "Semester forecasts of per-course academic metrics",
		Long: `Forecasts graduate counts and other per-course metrics a few half-year periods ahead
and merges the forecasts with the historical panel for the dashboard.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(forecastCmd(a))
	rootCmd.AddCommand(reconcileCmd(a))
	rootCmd.AddCommand(labelCmd())

	return rootCmd
}

// load reads the config, applies the logging flags and installs the default logger
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	slog.SetDefault(cfg.Logging.NewLogger(cmd.ErrOrStderr()))
	return nil
}
