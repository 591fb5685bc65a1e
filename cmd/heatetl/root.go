package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "heatetl",
	Short:         "Compute and aggregate heat-stress indices from meteorological observations",
	Long:          "heatetl ingests meteorological observations from a remote endpoint, a local file, or a seeded synthetic generator, computes four heat-stress indices per observation, and writes per-observation and aggregated outputs.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(runCmd, aggregateCmd, synthCmd)
}
