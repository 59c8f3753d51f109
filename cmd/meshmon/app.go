package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfreeman451/meshmon/pkg/collector"
	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/db"
	"github.com/mfreeman451/meshmon/pkg/discovery"
	"github.com/mfreeman451/meshmon/pkg/monitor"
	"github.com/mfreeman451/meshmon/pkg/notifications"
	"github.com/mfreeman451/meshmon/pkg/remote"
	"github.com/mfreeman451/meshmon/pkg/scan"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *db.DB
	ssh        *remote.SSHExecutor
	discoverer *discovery.Discoverer
	collector  *collector.Collector
	dispatcher *notifications.Dispatcher
	monitor    *monitor.Monitor
}

// newStoreApp opens only the store, for the read commands.
func newStoreApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := db.New(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

// newApp wires the full collection pipeline.
func newApp(ctx context.Context) (*app, error) {
	a, err := newStoreApp(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.wire(); err != nil {
		a.Close()

		return nil, err
	}

	return a, nil
}

func (a *app) wire() error {
	cfg := a.cfg

	var exec remote.Executor

	if cfg.Monitoring.RemoteEnabled() {
		ssh, err := remote.NewSSHExecutor(remote.SSHConfig{
			User:       cfg.Monitoring.SSHUser,
			KeyFile:    cfg.Monitoring.SSHKey,
			Port:       cfg.Monitoring.SSHPort,
			KnownHosts: cfg.Monitoring.KnownHosts,
		})
		if err != nil {
			return fmt.Errorf("ssh executor: %w", err)
		}

		a.ssh = ssh
		exec = ssh
	}

	a.discoverer = newDiscoverer(cfg, a.logger)

	pinger := scan.NewPinger(cfg.Monitoring.PingTimeout.Std(), a.logger)

	a.collector = collector.New(pinger, exec, collector.Config{
		Services: cfg.Monitoring.Services,
		Timeout:  cfg.Monitoring.Timeout.Std(),
		Remote:   exec != nil,
	}, a.logger)

	senders, err := notifications.FromConfig(&cfg.Notifications)
	if err != nil {
		return err
	}

	if len(senders) == 0 {
		a.logger.Warn("no notification channel enabled, alerts stay pending")
	}

	a.dispatcher = notifications.NewDispatcher(senders, cfg.Notifications.RateLimit, a.logger)

	a.monitor = monitor.New(
		monitor.ConfigFrom(cfg),
		a.discoverer,
		a.collector,
		a.store,
		a.dispatcher,
		a.logger)

	return nil
}

// newDiscoverer queries the local routing daemon when discovery is enabled.
func newDiscoverer(cfg *config.Config, logger *slog.Logger) *discovery.Discoverer {
	var query discovery.NeighborQuery

	if cfg.Network.DiscoveryEnabled() {
		query = discovery.NewVtyshQuery(
			remote.NewLocalExecutor(),
			"",
			cfg.Network.DiscoveryCommand,
			cfg.Network.DiscoveryTimeout.Std())
	}

	return discovery.New(cfg.Network.Nodes, query, logger)
}

// Close releases the SSH connections and the store.
func (a *app) Close() {
	if a.ssh != nil {
		if err := a.ssh.Close(); err != nil {
			a.logger.Warn("failed to close ssh connections", slog.Any("error", err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close store", slog.Any("error", err))
		}
	}
}
