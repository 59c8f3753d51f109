// Package lifecycle runs the long-lived components of the process, wires
// them to SIGINT/SIGTERM and reports state to systemd.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds how long non-draining components may take
// to stop.
const DefaultShutdownTimeout = 10 * time.Second

var errShutdownTimeout = errors.New("components did not stop in time")

// Component is one long-running part of the process. Run must return
// once ctx is cancelled.
type Component struct {
	Name string
	Run  func(ctx context.Context) error
	// Drain components are awaited without the shutdown timeout. Their work
	// in progress is bounded by its own timeouts and is never cut short.
	Drain bool
}

// Options holds configuration for Run.
type Options struct {
	ServiceName string
	Components  []Component
	// Alive gates watchdog pings; nil means always alive.
	Alive func() bool
	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// systemd hooks, replaced in tests.
var (
	sdNotify          = daemon.SdNotify
	sdWatchdogEnabled = daemon.SdWatchdogEnabled
)

// Run starts every component and blocks until a signal arrives, ctx is
// cancelled or a component fails. Outside systemd the notifications are
// no-ops.
func Run(ctx context.Context, opts *Options) error {
	logger := opts.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "starting service", slog.String("service", opts.ServiceName))

	g, gctx := errgroup.WithContext(ctx)

	var bounded sync.WaitGroup

	for _, c := range opts.Components {
		c := c

		if !c.Drain {
			bounded.Add(1)
		}

		g.Go(func() error {
			if !c.Drain {
				defer bounded.Done()
			}

			if err := c.Run(gctx); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			return nil
		})
	}

	notify(logger, daemon.SdNotifyReady)

	if interval, err := sdWatchdogEnabled(false); err == nil && interval > 0 {
		go watchdog(gctx, logger, interval, opts.Alive)
	}

	<-gctx.Done()

	if ctx.Err() != nil {
		logger.InfoContext(ctx, "shutdown requested", slog.String("service", opts.ServiceName))
	}

	notify(logger, daemon.SdNotifyStopping)

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	stopped := make(chan struct{})

	go func() {
		bounded.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(timeout):
		return errShutdownTimeout
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("service stopped", slog.String("service", opts.ServiceName))

	return nil
}

func notify(logger *slog.Logger, state string) {
	if _, err := sdNotify(false, state); err != nil {
		logger.Warn("systemd notify failed", slog.String("state", state), slog.Any("error", err))
	}
}

// watchdog pings systemd at half the configured WatchdogSec while alive
// reports progress. A stalled loop stops the pings and systemd restarts us.
func watchdog(ctx context.Context, logger *slog.Logger, interval time.Duration, alive func() bool) {
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if alive != nil && !alive() {
				logger.Warn("collection loop stalled, withholding watchdog ping")

				continue
			}

			notify(logger, daemon.SdNotifyWatchdog)
		}
	}
}
