package main

import (
	"fmt"
	"time"

	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/spf13/cobra"
)

func labelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <YYYY.P>...",
		Short: "Validate period labels and print their canonical instant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				p, err := period.Decode(arg)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Label(), p.Time().Format(time.RFC3339)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
