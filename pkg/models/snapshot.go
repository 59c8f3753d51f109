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

// Snapshot is everything sampled from one node in one cycle. Metric fields
// are nil when the probe failed or its output could not be parsed.
type Snapshot struct {
	Hostname      string          `json:"hostname"`
	IP            string          `json:"ip"`
	Type          string          `json:"type"`
	Status        NodeStatus      `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	CPUPercent    *float64        `json:"cpu_percent,omitempty"`
	MemoryPercent *float64        `json:"memory_percent,omitempty"`
	DiskPercent   *float64        `json:"disk_percent,omitempty"`
	UptimeSeconds *int64          `json:"uptime_seconds,omitempty"`
	Services      []ServiceState  `json:"services,omitempty"`
	Neighbors     []NeighborState `json:"neighbors,omitempty"`
	// NeighborsSampled is set when the neighbor table was read, even if it
	// was empty.
	NeighborsSampled bool `json:"-"`
}

// HasMetrics reports whether at least one metric field was sampled.
func (s *Snapshot) HasMetrics() bool {
	return s.CPUPercent != nil || s.MemoryPercent != nil || s.DiskPercent != nil || s.UptimeSeconds != nil
}

// MetricSample is one persisted row of the metrics table.
type MetricSample struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    *float64  `json:"cpu_percent"`
	MemoryPercent *float64  `json:"memory_percent"`
	DiskPercent   *float64  `json:"disk_percent"`
	UptimeSeconds *int64    `json:"uptime_seconds"`
}

// ServiceState is the reported state of one probed service.
type ServiceState struct {
	Hostname    string    `json:"hostname"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
	Status      string    `json:"status"`
}

// NeighborState is one routing adjacency reported by a node.
type NeighborState struct {
	Hostname   string    `json:"hostname"`
	Timestamp  time.Time `json:"timestamp"`
	NeighborID string    `json:"neighbor_id"`
	NeighborIP string    `json:"neighbor_ip"`
	State      string    `json:"state"`
}
