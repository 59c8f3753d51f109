package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/notifications"
	"github.com/spf13/cobra"
)

var testNotifyCmd = &cobra.Command{
	Use:       "test-notify <channel>",
	Short:     "Send a test alert through one channel",
	Long:      "Send a synthetic info alert through one notification channel. Nothing is stored.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: notifications.ChannelNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		name := strings.ToLower(args[0])

		sender, err := notifications.ForChannel(&cfg.Notifications, name)
		if err != nil {
			return err
		}

		if err := notifications.Test(cmd.Context(), sender, time.Now()); err != nil {
			return fmt.Errorf("test notification via %s failed: %w", name, err)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "test notification sent via %s\n", name)

		return err
	},
}
