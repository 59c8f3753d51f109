package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
)

// ChannelNames lists every supported channel in dispatch order.
var ChannelNames = []string{"email", "telegram", "discord", "slack", "webhook"}

// FromConfig builds a sender for every enabled channel.
func FromConfig(cfg *config.NotificationsConfig) ([]Sender, error) {
	enabled := map[string]bool{
		"email":    cfg.Email.Enabled,
		"telegram": cfg.Telegram.Enabled,
		"discord":  cfg.Discord.Enabled,
		"slack":    cfg.Slack.Enabled,
		"webhook":  cfg.Webhook.Enabled,
	}

	var senders []Sender

	for _, name := range ChannelNames {
		if !enabled[name] {
			continue
		}

		s, err := ForChannel(cfg, name)
		if err != nil {
			return nil, err
		}

		senders = append(senders, s)
	}

	return senders, nil
}

// ForChannel builds the sender for one channel whether or not it is enabled.
func ForChannel(cfg *config.NotificationsConfig, name string) (Sender, error) {
	timeout := cfg.Timeout.Std()

	var (
		s   Sender
		err error
	)

	switch name {
	case "email":
		s, err = NewEmailSender(cfg.Email, cfg.DashboardURL, timeout)
	case "telegram":
		s, err = NewTelegramSender(cfg.Telegram, cfg.DashboardURL, timeout)
	case "discord":
		s, err = NewDiscordSender(cfg.Discord, cfg.DashboardURL, timeout)
	case "slack":
		s, err = NewSlackSender(cfg.Slack, cfg.DashboardURL, timeout)
	case "webhook":
		s, err = NewWebhookSender(cfg.Webhook, cfg.DashboardURL, timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}

	if err != nil {
		return nil, err
	}

	return s, nil
}

// Test sends the synthetic test alert through s.
func Test(ctx context.Context, s Sender, now time.Time) error {
	return safeSend(ctx, s, TestAlert(now))
}
