package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a single collection cycle and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.monitor.RunCycle(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), report)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"cycle %s: %d nodes (%d online, %d unreachable), %d alerts opened, %d auto-resolved, %d notified, %d pending after failure, took %s\n",
			report.ID, report.Nodes, report.Online, report.Unreachable,
			report.AlertsOpened, report.AutoResolved, report.Notified, report.Failed, report.Duration)

		return err
	},
}
