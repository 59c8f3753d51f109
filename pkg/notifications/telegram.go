package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// TelegramSender posts HTML formatted messages through the bot API.
type TelegramSender struct {
	cfg          config.TelegramConfig
	dashboardURL string
	poster       *poster
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func NewTelegramSender(cfg config.TelegramConfig, dashboardURL string, timeout time.Duration) (*TelegramSender, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("%w: telegram needs bot_token and chat_id", ErrConfigurationError)
	}

	return &TelegramSender{
		cfg:          cfg,
		dashboardURL: dashboardURL,
		poster:       newPoster(timeout),
	}, nil
}

func (*TelegramSender) Name() string { return "telegram" }

func (s *TelegramSender) Send(ctx context.Context, alert *models.Alert) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.cfg.APIURL, "/"), s.cfg.BotToken)

	form := url.Values{}
	form.Set("chat_id", s.cfg.ChatID)
	form.Set("text", formatTelegram(newMessage(alert, s.dashboardURL)))
	form.Set("parse_mode", "HTML")

	body, err := s.poster.do(ctx, http.MethodPost, endpoint, "application/x-www-form-urlencoded", nil, []byte(form.Encode()))
	if err != nil {
		// the token is part of the URL; keep it out of logs
		return fmt.Errorf("telegram: %w", redact(err, s.cfg.BotToken))
	}

	var resp telegramResponse
	if err := json.Unmarshal(body, &resp); err == nil && !resp.OK {
		return fmt.Errorf("%w: telegram: %s", ErrDeliveryFailed, resp.Description)
	}

	return nil
}

// formatTelegram renders m for parse_mode=HTML. Every interpolated field is
// escaped; alert types like high_cpu would break legacy Markdown entities.
func formatTelegram(m message) string {
	emoji := "⚠️"
	if m.Severity == string(models.SeverityCritical) {
		emoji = "🔴"
	}

	esc := html.EscapeString

	var b strings.Builder

	fmt.Fprintf(&b, "%s <b>%s</b>\n\n", emoji, esc(m.SeverityUp))
	fmt.Fprintf(&b, "<b>Node:</b> %s\n", esc(m.Hostname))
	fmt.Fprintf(&b, "<b>Type:</b> %s\n", esc(m.Type))
	fmt.Fprintf(&b, "<b>Time:</b> %s\n\n", esc(m.Timestamp))
	fmt.Fprintf(&b, "%s\n\n", esc(m.Text))
	fmt.Fprintf(&b, "<a href=\"%s\">View Dashboard</a>\n", esc(m.DashboardURL))

	return b.String()
}
