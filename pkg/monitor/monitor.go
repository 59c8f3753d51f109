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

package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mfreeman451/meshmon/pkg/alerts"
	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/db"
	"github.com/mfreeman451/meshmon/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Config tunes the loop.
type Config struct {
	Interval     time.Duration
	Workers      int
	ErrorBackoff time.Duration
	MaxBackoff   time.Duration
	Thresholds   config.Thresholds
	AutoResolve  bool
}

// ConfigFrom extracts the loop settings from the root configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Interval:     cfg.Monitoring.Interval.Std(),
		Workers:      cfg.Monitoring.Workers,
		ErrorBackoff: cfg.Monitoring.ErrorBackoff.Std(),
		MaxBackoff:   cfg.Monitoring.MaxBackoff.Std(),
		Thresholds:   cfg.Thresholds,
		AutoResolve:  cfg.Monitoring.AutoResolve,
	}
}

// CycleReport summarises one completed cycle.
type CycleReport struct {
	ID           string        `json:"cycle_id"`
	Nodes        int           `json:"nodes"`
	Online       int           `json:"online"`
	Unreachable  int           `json:"unreachable"`
	AlertsOpened int           `json:"alerts_opened"`
	AutoResolved int           `json:"auto_resolved"`
	Notified     int           `json:"notified"`
	Failed       int           `json:"notify_failed"`
	Duration     time.Duration `json:"duration"`
}

// Monitor owns one collection loop. Everything it needs is injected;
// prior-cycle data lives only in the store.
type Monitor struct {
	cfg       Config
	targets   TargetSource
	collector SnapshotCollector
	store     db.Service
	dedup     *alerts.Deduplicator
	notifier  Notifier
	logger    *slog.Logger

	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	progress atomic.Int64
}

func New(
	cfg Config,
	targets TargetSource,
	collector SnapshotCollector,
	store db.Service,
	notifier Notifier,
	logger *slog.Logger) *Monitor {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	m := &Monitor{
		cfg:       cfg,
		targets:   targets,
		collector: collector,
		store:     store,
		dedup:     alerts.NewDeduplicator(store, logger),
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepContext,
	}

	m.touch()

	return m
}

// Run repeats cycles until ctx is cancelled. A failed cycle is followed by
// a backoff that doubles up to MaxBackoff and resets after a good cycle.
// Cancellation interrupts the sleep, never a cycle in progress: in-flight
// probes finish or time out on their own so no node is half written.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.InfoContext(ctx, "collection loop started",
		slog.Duration("interval", m.cfg.Interval),
		slog.Int("workers", m.cfg.Workers))

	var backoff time.Duration

	for {
		_, err := m.RunCycle(context.WithoutCancel(ctx))

		if ctx.Err() != nil {
			m.logger.InfoContext(ctx, "collection loop stopped")

			return nil
		}

		wait := m.cfg.Interval

		if err != nil {
			if Classify(err) == KindFatal {
				return err
			}

			backoff = nextBackoff(backoff, m.cfg.ErrorBackoff, m.cfg.MaxBackoff)
			wait = backoff

			m.logger.ErrorContext(ctx, "cycle failed",
				slog.Any("error", err),
				slog.String("kind", Classify(err).String()),
				slog.Duration("backoff", backoff))
		} else {
			backoff = 0
		}

		m.touch()

		if err := m.sleep(ctx, wait); err != nil {
			m.logger.InfoContext(ctx, "collection loop stopped")

			return nil
		}
	}
}

func nextBackoff(current, base, ceiling time.Duration) time.Duration {
	next := base
	if current > 0 {
		next = current * 2
	}

	if ceiling > 0 && next > ceiling {
		next = ceiling
	}

	return next
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunCycle performs one full cycle. A panic anywhere in the cycle is
// recovered and returned as ErrCyclePanic.
func (m *Monitor) RunCycle(ctx context.Context) (report CycleReport, err error) {
	report.ID = uuid.NewString()
	logger := m.logger.With(slog.String("cycle_id", report.ID))
	start := m.now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)

			logger.ErrorContext(ctx, "cycle panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}

		report.Duration = m.now().Sub(start)
		cycleDuration.Observe(report.Duration.Seconds())

		if err != nil {
			cyclesTotal.WithLabelValues("failed").Inc()
		} else {
			cyclesTotal.WithLabelValues("ok").Inc()
		}
	}()

	// discovering
	targets := m.targets.Discover(ctx)
	m.touch()

	// collecting
	snaps := m.collect(ctx, logger, targets)
	m.touch()

	// persisting
	for _, snap := range snaps {
		if err := m.store.StoreSnapshot(ctx, snap); err != nil {
			return report, fmt.Errorf("%w: store %s: %w", ErrPersistence, snap.Hostname, err)
		}

		report.Nodes++

		if snap.Status == models.NodeOnline {
			report.Online++
		} else {
			report.Unreachable++
		}
	}

	nodesGauge.WithLabelValues(string(models.NodeOnline)).Set(float64(report.Online))
	nodesGauge.WithLabelValues(string(models.NodeUnreachable)).Set(float64(report.Unreachable))
	m.touch()

	// evaluating
	if err := m.evaluate(ctx, snaps, &report); err != nil {
		return report, err
	}

	m.touch()

	// notifying
	if err := m.notify(ctx, &report); err != nil {
		return report, err
	}

	logger.InfoContext(ctx, "cycle complete",
		slog.Int("nodes", report.Nodes),
		slog.Int("online", report.Online),
		slog.Int("alerts_opened", report.AlertsOpened),
		slog.Int("notified", report.Notified),
		slog.Duration("duration", m.now().Sub(start)))

	return report, nil
}

// collect samples every target on a bounded pool. Each worker writes only
// its own slot; the batch is handed back once every node is assembled.
func (m *Monitor) collect(ctx context.Context, logger *slog.Logger, targets []models.Target) []*models.Snapshot {
	slots := make([]*models.Snapshot, len(targets))

	var g errgroup.Group

	g.SetLimit(m.cfg.Workers)

	for i := range targets {
		i := i

		g.Go(func() error {
			slots[i] = m.collectOne(ctx, logger, targets[i])

			return nil
		})
	}

	_ = g.Wait()

	snaps := make([]*models.Snapshot, 0, len(slots))

	for _, s := range slots {
		if s != nil {
			snaps = append(snaps, s)
		}
	}

	return snaps
}

// collectOne isolates a panicking probe to its own node.
func (m *Monitor) collectOne(ctx context.Context, logger *slog.Logger, target models.Target) (snap *models.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil

			logger.ErrorContext(ctx, "node collection panicked, skipping node",
				slog.String("hostname", target.Hostname),
				slog.Any("panic", r))
		}
	}()

	return m.collector.Collect(ctx, target)
}

func (m *Monitor) evaluate(ctx context.Context, snaps []*models.Snapshot, report *CycleReport) error {
	for _, snap := range snaps {
		candidates := alerts.Evaluate(snap, m.cfg.Thresholds)

		if m.cfg.AutoResolve {
			n, err := m.dedup.ResolveCleared(ctx, snap, candidates)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPersistence, err)
			}

			report.AutoResolved += n
		}

		opened, err := m.dedup.Open(ctx, candidates)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}

		report.AlertsOpened += opened
		alertsOpened.Add(float64(opened))
	}

	return nil
}

// notify dispatches every alert that has no notification record yet,
// including ones left over from earlier cycles or an earlier process.
func (m *Monitor) notify(ctx context.Context, report *CycleReport) error {
	pending, err := m.dedup.Pending(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	for i := range pending {
		a := &pending[i]

		results := m.notifier.Dispatch(ctx, a)

		recorded, err := m.dedup.MarkNotified(ctx, a, results)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}

		if recorded {
			report.Notified++
			alertsNotified.Inc()
		} else if len(results) > 0 {
			report.Failed++
		}
	}

	return nil
}

func (m *Monitor) touch() {
	m.progress.Store(m.now().UnixNano())
}

// Alive reports whether the loop made progress recently enough to be
// considered healthy by a watchdog.
func (m *Monitor) Alive() bool {
	stall := 2*max(m.cfg.Interval, m.cfg.MaxBackoff) + m.cfg.Interval

	return m.now().Sub(time.Unix(0, m.progress.Load())) < stall
}
