/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

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

const (
	// Discord embed colors
	DiscordColorRed    = 15158332 // Critical
	DiscordColorYellow = 16776960 // Warning
	DiscordColorBlue   = 3447003  // Info
	DiscordColorGray   = 8421504
)

// DiscordEmbed represents a Discord message embed.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
}

// DiscordEmbedField represents a field in a Discord embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// DiscordEmbedFooter represents the footer in a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordWebhookPayload represents the payload for a Discord webhook.
type DiscordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []DiscordEmbed `json:"embeds"`
}

// DiscordSender posts an embed to a Discord incoming webhook.
type DiscordSender struct {
	webhookURL   string
	dashboardURL string
	poster       *poster
}

func NewDiscordSender(cfg config.ChatWebhookConfig, dashboardURL string, timeout time.Duration) (*DiscordSender, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: discord needs webhook_url", ErrConfigurationError)
	}

	return &DiscordSender{
		webhookURL:   cfg.WebhookURL,
		dashboardURL: dashboardURL,
		poster:       newPoster(timeout),
	}, nil
}

func (*DiscordSender) Name() string { return "discord" }

func (s *DiscordSender) Send(ctx context.Context, alert *models.Alert) error {
	payload, err := json.Marshal(discordPayload(newMessage(alert, s.dashboardURL)))
	if err != nil {
		return fmt.Errorf("%w: %w", errMarshalPayload, err)
	}

	if _, err := s.poster.do(ctx, http.MethodPost, s.webhookURL, "application/json", nil, payload); err != nil {
		return fmt.Errorf("discord: %w", err)
	}

	return nil
}

func discordColor(severity string) int {
	switch models.Severity(severity) {
	case models.SeverityCritical:
		return DiscordColorRed
	case models.SeverityWarning:
		return DiscordColorYellow
	case models.SeverityInfo:
		return DiscordColorBlue
	default:
		return DiscordColorGray
	}
}

func severityEmoji(severity string) string {
	switch models.Severity(severity) {
	case models.SeverityCritical:
		return "🔴"
	case models.SeverityWarning:
		return "⚠️"
	case models.SeverityInfo:
		return "ℹ️"
	default:
		return "🔔"
	}
}

func discordPayload(m message) DiscordWebhookPayload {
	embed := DiscordEmbed{
		Title:       fmt.Sprintf("%s %s - %s", severityEmoji(m.Severity), m.SeverityUp, m.Type),
		Description: m.Text,
		URL:         m.DashboardURL,
		Color:       discordColor(m.Severity),
		Fields: []DiscordEmbedField{
			{Name: "Node", Value: m.Hostname, Inline: true},
			{Name: "Severity", Value: m.SeverityUp, Inline: true},
			{Name: "Type", Value: m.Type, Inline: true},
		},
		Timestamp: m.Timestamp,
		Footer:    &DiscordEmbedFooter{Text: productName},
	}

	if m.DashboardURL != "" {
		embed.Fields = append(embed.Fields, DiscordEmbedField{
			Name:  "Dashboard",
			Value: m.DashboardURL,
		})
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}
