package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// SlackText is a Block Kit text object.
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SlackElement is an interactive element inside an actions block.
type SlackElement struct {
	Type string    `json:"type"`
	Text SlackText `json:"text"`
	URL  string    `json:"url,omitempty"`
}

// SlackBlock is one Block Kit layout block.
type SlackBlock struct {
	Type     string         `json:"type"`
	Text     *SlackText     `json:"text,omitempty"`
	Fields   []SlackText    `json:"fields,omitempty"`
	Elements []SlackElement `json:"elements,omitempty"`
}

// SlackPayload is the body of an incoming webhook call.
type SlackPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackSender posts Block Kit messages to a Slack incoming webhook.
type SlackSender struct {
	webhookURL   string
	dashboardURL string
	poster       *poster
}

func NewSlackSender(cfg config.ChatWebhookConfig, dashboardURL string, timeout time.Duration) (*SlackSender, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: slack needs webhook_url", ErrConfigurationError)
	}

	return &SlackSender{
		webhookURL:   cfg.WebhookURL,
		dashboardURL: dashboardURL,
		poster:       newPoster(timeout),
	}, nil
}

func (*SlackSender) Name() string { return "slack" }

func (s *SlackSender) Send(ctx context.Context, alert *models.Alert) error {
	payload, err := json.Marshal(slackPayload(newMessage(alert, s.dashboardURL)))
	if err != nil {
		return fmt.Errorf("%w: %w", errMarshalPayload, err)
	}

	if _, err := s.poster.do(ctx, http.MethodPost, s.webhookURL, "application/json", nil, payload); err != nil {
		return fmt.Errorf("slack: %w", err)
	}

	return nil
}

func slackEmoji(severity string) string {
	switch models.Severity(severity) {
	case models.SeverityCritical:
		return ":red_circle:"
	case models.SeverityWarning:
		return ":warning:"
	case models.SeverityInfo:
		return ":information_source:"
	default:
		return ":bell:"
	}
}

func mrkdwn(text string) SlackText {
	return SlackText{Type: "mrkdwn", Text: text}
}

func slackPayload(m message) SlackPayload {
	emoji := slackEmoji(m.Severity)

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{Type: "plain_text", Text: fmt.Sprintf("%s %s - %s", emoji, m.SeverityUp, m.Type)},
		},
		{
			Type: "section",
			Fields: []SlackText{
				mrkdwn("*Node:*\n" + m.Hostname),
				mrkdwn("*Severity:*\n" + m.SeverityUp),
				mrkdwn("*Type:*\n" + m.Type),
				mrkdwn("*Time:*\n" + m.Timestamp),
			},
		},
		{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: "*Message:*\n" + m.Text},
		},
	}

	if m.DashboardURL != "" {
		blocks = append(blocks, SlackBlock{
			Type: "actions",
			Elements: []SlackElement{{
				Type: "button",
				Text: SlackText{Type: "plain_text", Text: "View Dashboard"},
				URL:  m.DashboardURL,
			}},
		})
	}

	return SlackPayload{
		Text:   fmt.Sprintf("%s *%s* - Mesh Network Alert", emoji, m.SeverityUp),
		Blocks: blocks,
	}
}
