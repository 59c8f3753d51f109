package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the nodes the next cycle would monitor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		targets := newDiscoverer(cfg, logger).Discover(cmd.Context())

		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), targets)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), targetsTable(targets))

		return err
	},
}
