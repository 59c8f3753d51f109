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

// Package alerts derives alert candidates from snapshots and tracks which
// alert rows still need a notification.
package alerts

import (
	"fmt"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// HealthyServiceState is the only systemctl state that does not alert.
const HealthyServiceState = "active"

// Evaluate turns one snapshot into alert candidates, in a fixed order:
// node_down, cpu, memory, disk, then one service_down per unhealthy service.
// It has no side effects; candidates carry no ID.
func Evaluate(snap *models.Snapshot, t config.Thresholds) []models.Alert {
	var out []models.Alert

	add := func(sev models.Severity, typ models.AlertType, subject, msg string) {
		out = append(out, models.Alert{
			Timestamp: snap.Timestamp,
			Hostname:  snap.Hostname,
			Severity:  sev,
			Type:      typ,
			Subject:   subject,
			Message:   msg,
		})
	}

	if snap.Status == models.NodeUnreachable {
		add(models.SeverityCritical, models.AlertNodeDown, "",
			fmt.Sprintf("Node %s is unreachable", snap.Hostname))

		return out
	}

	tiers := []struct {
		typ      models.AlertType
		label    string
		value    *float64
		warning  float64
		critical float64
	}{
		{models.AlertHighCPU, "CPU", snap.CPUPercent, t.CPUWarning, t.CPUCritical},
		{models.AlertHighMemory, "Memory", snap.MemoryPercent, t.MemoryWarning, t.MemoryCritical},
		{models.AlertHighDisk, "Disk", snap.DiskPercent, t.DiskWarning, t.DiskCritical},
	}

	for _, tier := range tiers {
		if tier.value == nil {
			continue
		}

		v := *tier.value

		switch {
		case v >= tier.critical:
			add(models.SeverityCritical, tier.typ, "",
				fmt.Sprintf("%s usage on %s is %.1f%% (critical)", tier.label, snap.Hostname, v))
		case v >= tier.warning:
			add(models.SeverityWarning, tier.typ, "",
				fmt.Sprintf("%s usage on %s is %.1f%% (warning)", tier.label, snap.Hostname, v))
		}
	}

	for _, svc := range snap.Services {
		if svc.Status == HealthyServiceState {
			continue
		}

		add(models.SeverityCritical, models.AlertServiceDown, svc.ServiceName,
			fmt.Sprintf("Service %s on %s is %s", svc.ServiceName, snap.Hostname, svc.Status))
	}

	return out
}
