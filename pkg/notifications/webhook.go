package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// WebhookPayload is the JSON document sent to generic webhooks.
type WebhookPayload struct {
	AlertID      int64  `json:"alert_id,omitempty"`
	Timestamp    string `json:"timestamp"`
	Hostname     string `json:"hostname"`
	Severity     string `json:"severity"`
	Type         string `json:"type"`
	Subject      string `json:"subject,omitempty"`
	Message      string `json:"message"`
	DashboardURL string `json:"dashboard_url"`
}

// WebhookSender sends alerts as JSON with a configurable method and headers.
type WebhookSender struct {
	cfg          config.WebhookConfig
	method       string
	dashboardURL string
	poster       *poster
}

func NewWebhookSender(cfg config.WebhookConfig, dashboardURL string, timeout time.Duration) (*WebhookSender, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: webhook needs url", ErrConfigurationError)
	}

	method := strings.ToUpper(cfg.Method)
	if method == "" {
		method = http.MethodPost
	}

	if method != http.MethodPost && method != http.MethodPut {
		return nil, fmt.Errorf("%w: %s", errUnsupportedVerb, cfg.Method)
	}

	return &WebhookSender{
		cfg:          cfg,
		method:       method,
		dashboardURL: dashboardURL,
		poster:       newPoster(timeout),
	}, nil
}

func (*WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, alert *models.Alert) error {
	m := newMessage(alert, s.dashboardURL)

	payload, err := json.Marshal(WebhookPayload{
		AlertID:      alert.ID,
		Timestamp:    m.Timestamp,
		Hostname:     m.Hostname,
		Severity:     m.Severity,
		Type:         m.Type,
		Subject:      m.Subject,
		Message:      m.Text,
		DashboardURL: m.DashboardURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errMarshalPayload, err)
	}

	if _, err := s.poster.do(ctx, s.method, s.cfg.URL, "application/json", s.cfg.Headers, payload); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}

	return nil
}
