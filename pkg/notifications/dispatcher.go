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
	"fmt"
	"log/slog"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
	"golang.org/x/time/rate"
)

// Dispatcher fans an alert out to every configured sender. Each channel is
// attempted independently and a failure in one never stops the others.
// There is no retry inside a dispatch.
type Dispatcher struct {
	senders  []Sender
	limiters map[string]*rate.Limiter
	logger   *slog.Logger
}

// NewDispatcher builds a dispatcher. perMinute caps sends per channel;
// zero disables the limit.
func NewDispatcher(senders []Sender, perMinute int, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		senders:  senders,
		limiters: make(map[string]*rate.Limiter, len(senders)),
		logger:   logger,
	}

	if perMinute > 0 {
		for _, s := range senders {
			d.limiters[s.Name()] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}

	return d
}

// Channels returns the names of the configured channels in dispatch order.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.senders))
	for _, s := range d.senders {
		names = append(names, s.Name())
	}

	return names
}

// Dispatch sends the alert to every channel and returns one result per channel.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert) []models.ChannelResult {
	results := make([]models.ChannelResult, 0, len(d.senders))

	for _, s := range d.senders {
		name := s.Name()
		res := models.ChannelResult{Channel: name}

		if lim, ok := d.limiters[name]; ok && !lim.Allow() {
			res.Err = ErrRateLimited
			notificationsTotal.WithLabelValues(name, "rate_limited").Inc()

			d.logger.WarnContext(ctx, "notification rate limited",
				slog.String("channel", name),
				slog.Int64("alert_id", alert.ID))

			results = append(results, res)

			continue
		}

		start := time.Now()
		err := safeSend(ctx, s, alert)
		notificationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			res.Err = err
			notificationsTotal.WithLabelValues(name, "failed").Inc()

			d.logger.WarnContext(ctx, "notification failed",
				slog.String("channel", name),
				slog.Int64("alert_id", alert.ID),
				slog.Any("error", err))
		} else {
			res.Success = true
			notificationsTotal.WithLabelValues(name, "sent").Inc()

			d.logger.InfoContext(ctx, "notification sent",
				slog.String("channel", name),
				slog.Int64("alert_id", alert.ID))
		}

		results = append(results, res)
	}

	return results
}

// safeSend converts a sender panic into an error.
func safeSend(ctx context.Context, s Sender, alert *models.Alert) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrSenderPanic, s.Name(), r)
		}
	}()

	return s.Send(ctx, alert)
}
