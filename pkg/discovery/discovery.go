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

// Package discovery builds the node set sampled each cycle from the static
// configuration and the routing daemon's neighbor table.
package discovery

import (
	"context"
	"log/slog"
	"net"
	"strings"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// Discoverer merges configured nodes with routing neighbors.
type Discoverer struct {
	static []models.Target
	query  NeighborQuery
	logger *slog.Logger
}

// New returns a Discoverer. A nil query disables dynamic discovery.
func New(nodes []config.NodeConfig, query NeighborQuery, logger *slog.Logger) *Discoverer {
	static := make([]models.Target, 0, len(nodes))

	for _, n := range nodes {
		hostname := n.Hostname
		if hostname == "" {
			hostname = SyntheticHostname(n.IP)
		}

		nodeType := n.Type
		if nodeType == "" {
			nodeType = models.DefaultNodeType
		}

		static = append(static, models.Target{
			Hostname: hostname,
			IP:       n.IP,
			Type:     nodeType,
			Source:   models.SourceStatic,
		})
	}

	return &Discoverer{
		static: static,
		query:  query,
		logger: logger,
	}
}

// Discover returns the targets for this cycle. It never fails: a broken
// neighbor query degrades to the static list and is logged.
func (d *Discoverer) Discover(ctx context.Context) []models.Target {
	if d.query == nil {
		return d.merge(ctx, nil)
	}

	neighbors, err := d.query.Neighbors(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "neighbor discovery failed, using static nodes only",
			slog.Int("static_nodes", len(d.static)),
			slog.Any("error", err))

		return d.merge(ctx, nil)
	}

	targets := d.merge(ctx, neighbors)

	d.logger.DebugContext(ctx, "discovery complete",
		slog.Int("static_nodes", len(d.static)),
		slog.Int("neighbors", len(neighbors)),
		slog.Int("targets", len(targets)))

	return targets
}

func (d *Discoverer) merge(ctx context.Context, neighbors []models.Neighbor) []models.Target {
	targets, conflicts := merge(d.static, neighbors)

	for _, c := range conflicts {
		d.logger.WarnContext(ctx, "skipping node whose hostname is already taken",
			slog.String("hostname", c.Hostname),
			slog.String("ip", c.IP),
			slog.String("source", string(c.Source)))
	}

	return targets
}

// Merge returns static targets first, then neighbors whose address is new.
// Addresses are compared in canonical form, so two spellings of one IPv6
// address count as the same node. Neighbors without a parsable address are
// ignored. Hostnames are unique in the result: an entry whose hostname is
// already taken is left out.
func Merge(static []models.Target, neighbors []models.Neighbor) []models.Target {
	targets, _ := merge(static, neighbors)

	return targets
}

// merge is Merge that also returns the entries dropped for a hostname clash.
func merge(static []models.Target, neighbors []models.Neighbor) (targets, conflicts []models.Target) {
	seen := make(map[string]struct{}, len(static)+len(neighbors))
	names := make(map[string]struct{}, len(static)+len(neighbors))
	targets = make([]models.Target, 0, len(static)+len(neighbors))

	add := func(t models.Target) {
		key := canonicalIP(t.IP)
		if _, dup := seen[key]; dup {
			return
		}

		if _, taken := names[t.Hostname]; taken {
			conflicts = append(conflicts, t)
			return
		}

		seen[key] = struct{}{}
		names[t.Hostname] = struct{}{}

		targets = append(targets, t)
	}

	for _, t := range static {
		add(t)
	}

	for _, n := range neighbors {
		ip := net.ParseIP(n.Address)
		if ip == nil {
			continue
		}

		key := ip.String()

		add(models.Target{
			Hostname: SyntheticHostname(key),
			IP:       key,
			Type:     models.DefaultNodeType,
			Source:   models.SourceOSPF,
		})
	}

	return targets, conflicts
}

// SyntheticHostname derives a stable hostname from an address:
// 10.0.1.5 becomes node-10-0-1-5.
func SyntheticHostname(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil {
		ip = parsed.String()
	}

	return "node-" + strings.NewReplacer(".", "-", ":", "-").Replace(ip)
}

func canonicalIP(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}

	return ip
}
