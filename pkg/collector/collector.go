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

// Package collector samples one node: a reachability check followed by a
// fixed set of remote probes, assembled into a models.Snapshot.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mfreeman451/meshmon/pkg/discovery"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/mfreeman451/meshmon/pkg/remote"
	"github.com/mfreeman451/meshmon/pkg/scan"
)

const (
	cpuCommand       = `top -bn1 | grep 'Cpu(s)' | awk '{print $2}'`
	memoryCommand    = `free | grep Mem | awk '{print ($3/$2) * 100.0}'`
	diskCommand      = `df -h / | tail -1 | awk '{print $5}'`
	uptimeCommand    = `cat /proc/uptime | awk '{print $1}'`
	serviceCommand   = `systemctl is-active `
	neighborsCommand = `sudo vtysh -c 'show ip ospf neighbor json'`
)

// Config holds the collector settings.
type Config struct {
	Services []string
	Timeout  time.Duration
	// Remote disables every remote probe when false; nodes are then only pinged.
	Remote bool
}

// Collector implements the per-node sampling step of a cycle.
type Collector struct {
	pinger scan.Pinger
	exec   remote.Executor
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// probe is one remote command and how its output lands in the snapshot.
type probe struct {
	name    string
	command string
	// acceptNonZero keeps the output of a command that exited non-zero.
	acceptNonZero bool
	apply         func(snap *models.Snapshot, out string) error
}

func New(pinger scan.Pinger, exec remote.Executor, cfg Config, logger *slog.Logger) *Collector {
	return &Collector{
		pinger: pinger,
		exec:   exec,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Collect never fails. Every problem short of unreachability only removes
// the affected field from the returned snapshot.
func (c *Collector) Collect(ctx context.Context, target models.Target) *models.Snapshot {
	snap := &models.Snapshot{
		Hostname:  target.Hostname,
		IP:        target.IP,
		Type:      target.Type,
		Status:    models.NodeUnreachable,
		Timestamp: c.now().UTC(),
	}

	logger := c.logger.With(slog.String("hostname", target.Hostname), slog.String("ip", target.IP))

	ok, err := c.pinger.Reachable(ctx, target.IP)
	if err != nil {
		logger.WarnContext(ctx, "reachability check failed", slog.Any("error", err))
	}

	if !ok {
		reachabilityTotal.WithLabelValues(string(models.NodeUnreachable)).Inc()
		logger.InfoContext(ctx, "node unreachable")

		return snap
	}

	snap.Status = models.NodeOnline

	reachabilityTotal.WithLabelValues(string(models.NodeOnline)).Inc()

	if !c.cfg.Remote || c.exec == nil {
		return snap
	}

	for _, p := range c.probes() {
		if ctx.Err() != nil {
			break
		}

		c.runProbe(ctx, logger, target.IP, snap, p)
	}

	return snap
}

func (c *Collector) runProbe(ctx context.Context, logger *slog.Logger, ip string, snap *models.Snapshot, p probe) {
	start := time.Now()
	out, err := c.exec.Run(ctx, ip, p.command, c.cfg.Timeout)

	probeDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	if err != nil && !(p.acceptNonZero && errors.Is(err, remote.ErrNonZeroExit)) {
		probeFailures.WithLabelValues(p.name).Inc()
		logger.DebugContext(ctx, "probe failed", slog.String("probe", p.name), slog.Any("error", err))

		return
	}

	if err := p.apply(snap, out); err != nil {
		probeFailures.WithLabelValues(p.name).Inc()
		logger.DebugContext(ctx, "probe output unusable",
			slog.String("probe", p.name),
			slog.String("output", out),
			slog.Any("error", err))
	}
}

// probes lists the remote probes in the order they run.
func (c *Collector) probes() []probe {
	list := []probe{
		{
			name:    "cpu",
			command: cpuCommand,
			apply: func(s *models.Snapshot, out string) error {
				v, err := parsePercent(out)
				if err == nil {
					s.CPUPercent = &v
				}

				return err
			},
		},
		{
			name:    "memory",
			command: memoryCommand,
			apply: func(s *models.Snapshot, out string) error {
				v, err := parsePercent(out)
				if err == nil {
					s.MemoryPercent = &v
				}

				return err
			},
		},
		{
			name:    "disk",
			command: diskCommand,
			apply: func(s *models.Snapshot, out string) error {
				v, err := parsePercent(out)
				if err == nil {
					s.DiskPercent = &v
				}

				return err
			},
		},
		{
			name:    "uptime",
			command: uptimeCommand,
			apply: func(s *models.Snapshot, out string) error {
				v, err := parseUptime(out)
				if err == nil {
					s.UptimeSeconds = &v
				}

				return err
			},
		},
	}

	for _, svc := range c.cfg.Services {
		svc := svc

		list = append(list, probe{
			name:          "service_" + svc,
			command:       serviceCommand + svc,
			acceptNonZero: true, // is-active exits 3 for inactive units
			apply: func(s *models.Snapshot, out string) error {
				state, err := parseServiceState(out)
				if err != nil {
					return err
				}

				s.Services = append(s.Services, models.ServiceState{
					Hostname:    s.Hostname,
					Timestamp:   s.Timestamp,
					ServiceName: svc,
					Status:      state,
				})

				return nil
			},
		})
	}

	list = append(list, probe{
		name:    "neighbors",
		command: neighborsCommand,
		apply: func(s *models.Snapshot, out string) error {
			neighbors, err := discovery.ParseNeighbors([]byte(out))
			if err != nil {
				return err
			}

			s.NeighborsSampled = true

			for _, n := range neighbors {
				s.Neighbors = append(s.Neighbors, models.NeighborState{
					Hostname:   s.Hostname,
					Timestamp:  s.Timestamp,
					NeighborID: n.NeighborID,
					NeighborIP: n.Address,
					State:      n.State,
				})
			}

			return nil
		},
	})

	return list
}
