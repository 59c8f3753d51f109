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

// Package notifications delivers alerts to email, chat and webhook channels.
package notifications

//go:generate mockgen -destination=mock_notifications.go -package=notifications github.com/mfreeman451/meshmon/pkg/notifications Sender

import (
	"context"

	"github.com/mfreeman451/meshmon/pkg/models"
)

// Sender delivers one alert through one channel.
type Sender interface {
	// Name returns the channel name, e.g. "slack".
	Name() string

	// Send delivers the alert. A nil error means the channel accepted it.
	Send(ctx context.Context, alert *models.Alert) error
}
