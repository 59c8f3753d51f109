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

package models

import "time"

// Severity is the alert level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertType identifies the violated condition.
type AlertType string

const (
	AlertNodeDown    AlertType = "node_down"
	AlertHighCPU     AlertType = "high_cpu"
	AlertHighMemory  AlertType = "high_memory"
	AlertHighDisk    AlertType = "high_disk"
	AlertServiceDown AlertType = "service_down"
	AlertTest        AlertType = "test"
)

// Alert is a persisted (or candidate, when ID is zero) alert row.
// ResolvedAt is non-nil iff Resolved is true.
type Alert struct {
	ID         int64      `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Hostname   string     `json:"hostname"`
	Severity   Severity   `json:"severity"`
	Type       AlertType  `json:"alert_type"`
	Subject    string     `json:"subject,omitempty"`
	Message    string     `json:"message"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AlertKey identifies the same ongoing condition across cycles.
type AlertKey struct {
	Hostname string
	Type     AlertType
	Severity Severity
	Subject  string
}

// Key returns the dedup key of the alert.
func (a *Alert) Key() AlertKey {
	return AlertKey{
		Hostname: a.Hostname,
		Type:     a.Type,
		Severity: a.Severity,
		Subject:  a.Subject,
	}
}

// NotificationRecord marks that an alert row has been delivered at least once.
type NotificationRecord struct {
	AlertID int64     `json:"alert_id"`
	SentAt  time.Time `json:"sent_at"`
}

// ChannelResult is the outcome of one channel during a dispatch.
type ChannelResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Err     error  `json:"-"`
}
