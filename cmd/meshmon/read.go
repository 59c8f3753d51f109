package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const maxAlertsLimit = 1000

var (
	errInvalidAlertID = errors.New("invalid alert id")
	errInvalidLimit   = errors.New("invalid limit")
)

var (
	alertsResolved bool
	alertsLimit    int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show node and alert counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newStoreApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.store.GetSummary(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), sum)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), summaryText(sum))

		return err
	},
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List nodes with their latest metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newStoreApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		nodes, err := a.store.GetNodes(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), nodes)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), nodesTable(nodes))

		return err
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List active or resolved alerts, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if alertsLimit < 1 || alertsLimit > maxAlertsLimit {
			return fmt.Errorf("%w: %d, want 1..%d", errInvalidLimit, alertsLimit, maxAlertsLimit)
		}

		a, err := newStoreApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.store.GetAlerts(cmd.Context(), alertsResolved, alertsLimit)
		if err != nil {
			return err
		}

		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), list)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), alertsTable(list))

		return err
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <alert-id>",
	Short: "Mark an alert resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAlertID(args[0])
		if err != nil {
			return err
		}

		a, err := newStoreApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.ResolveAlert(cmd.Context(), id); err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "alert %d resolved\n", id)

		return err
	},
}

func parseAlertID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", errInvalidAlertID, s)
	}

	return id, nil
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsResolved, "resolved", false, "List resolved alerts instead of active ones")
	alertsCmd.Flags().IntVarP(&alertsLimit, "limit", "n", 50, "Maximum number of alerts to list")
}
