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

// Package models holds the types shared by the collector, the store and the notifiers.
package models

import "time"

// NodeStatus is the liveness state recorded for a node.
type NodeStatus string

const (
	NodeOnline      NodeStatus = "online"
	NodeUnreachable NodeStatus = "unreachable"
	NodeUnknown     NodeStatus = "unknown"
)

// TargetSource records how a node was discovered.
type TargetSource string

const (
	SourceStatic TargetSource = "static"
	SourceOSPF   TargetSource = "ospf"
)

// DefaultNodeType is used for nodes learned dynamically.
const DefaultNodeType = "unknown"

// Target is a node to be sampled during one cycle.
type Target struct {
	Hostname string       `json:"hostname"`
	IP       string       `json:"ip"`
	Type     string       `json:"type"`
	Source   TargetSource `json:"source"`
}

// Node is the persisted row for a monitored host.
type Node struct {
	Hostname string     `json:"hostname"`
	IP       string     `json:"ip"`
	Type     string     `json:"type"`
	Status   NodeStatus `json:"status"`
	LastSeen time.Time  `json:"last_seen"`
}

// Neighbor is one entry returned by the routing daemon.
type Neighbor struct {
	NeighborID string `json:"neighbor_id"`
	Address    string `json:"address"`
	State      string `json:"state"`
}

// Summary holds the aggregate counts shown by status views.
type Summary struct {
	TotalNodes     int       `json:"total_nodes"`
	OnlineNodes    int       `json:"online_nodes"`
	OfflineNodes   int       `json:"offline_nodes"`
	CriticalAlerts int       `json:"critical_alerts"`
	WarningAlerts  int       `json:"warning_alerts"`
	Timestamp      time.Time `json:"timestamp"`
}

// NodeOverview is a node with its most recent metric sample, if any.
type NodeOverview struct {
	Node
	Metrics *MetricSample `json:"metrics,omitempty"`
}

// NodeDetail aggregates the recent history of one node.
type NodeDetail struct {
	Node      Node            `json:"node"`
	Metrics   []MetricSample  `json:"metrics"`
	Services  []ServiceState  `json:"services"`
	Neighbors []NeighborState `json:"neighbors"`
}

// Edge is an adjacency between two known nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Topology is the node graph built from the neighbor tables.
type Topology struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
