package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifications struct {
	mu     sync.Mutex
	states []string
}

func (n *notifications) record(_ bool, state string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.states = append(n.states, state)

	return true, nil
}

func (n *notifications) count(state string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := 0

	for _, s := range n.states {
		if s == state {
			c++
		}
	}

	return c
}

func stubSystemd(t *testing.T, watchdog time.Duration) *notifications {
	t.Helper()

	n := &notifications{}
	origNotify, origWatchdog := sdNotify, sdWatchdogEnabled

	sdNotify = n.record
	sdWatchdogEnabled = func(bool) (time.Duration, error) { return watchdog, nil }

	t.Cleanup(func() {
		sdNotify, sdWatchdogEnabled = origNotify, origWatchdog
	})

	return n
}

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()

	return nil
}

func TestRun_GracefulShutdown(t *testing.T) {
	n := stubSystemd(t, 0)

	ctx, cancel := context.WithCancel(context.Background())

	var stopped atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ServiceName: "meshmon",
			Logger:      slog.Default(),
			Components: []Component{
				{Name: "loop", Run: func(ctx context.Context) error {
					<-ctx.Done()
					stopped.Add(1)

					return nil
				}},
				{Name: "api", Run: blockUntilDone},
			},
		})
	}()

	require.Eventually(t, func() bool { return n.count(daemon.SdNotifyReady) == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	assert.Equal(t, int32(1), stopped.Load())
	assert.Equal(t, 1, n.count(daemon.SdNotifyStopping))
}

func TestRun_ComponentFailureStopsOthers(t *testing.T) {
	stubSystemd(t, 0)

	boom := errors.New("address already in use")

	err := Run(context.Background(), &Options{
		ServiceName: "meshmon",
		Logger:      slog.Default(),
		Components: []Component{
			{Name: "api", Run: func(context.Context) error { return boom }},
			{Name: "loop", Run: blockUntilDone},
		},
	})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "api")
}

func TestWatchdog(t *testing.T) {
	n := stubSystemd(t, 0)

	var alive atomic.Bool
	alive.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		watchdog(ctx, slog.Default(), 20*time.Millisecond, alive.Load)
	}()

	defer func() {
		cancel()
		<-exited
	}()

	require.Eventually(t, func() bool { return n.count(daemon.SdNotifyWatchdog) >= 2 }, time.Second, 5*time.Millisecond)

	alive.Store(false)
	time.Sleep(30 * time.Millisecond)

	before := n.count(daemon.SdNotifyWatchdog)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, before, n.count(daemon.SdNotifyWatchdog))
}

func TestRun_DrainComponentOutlivesShutdownTimeout(t *testing.T) {
	stubSystemd(t, 0)

	ctx, cancel := context.WithCancel(context.Background())

	var finished atomic.Bool

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ServiceName:     "meshmon",
			Logger:          slog.Default(),
			ShutdownTimeout: 50 * time.Millisecond,
			Components: []Component{
				{Name: "loop", Drain: true, Run: func(ctx context.Context) error {
					<-ctx.Done()
					// an in-flight cycle finishing after the signal
					time.Sleep(200 * time.Millisecond)
					finished.Store(true)

					return nil
				}},
				{Name: "api", Run: blockUntilDone},
			},
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	assert.True(t, finished.Load())
}

func TestRun_BoundedComponentTimesOut(t *testing.T) {
	stubSystemd(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})

	t.Cleanup(func() { close(release) })

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ServiceName:     "meshmon",
			Logger:          slog.Default(),
			ShutdownTimeout: 50 * time.Millisecond,
			Components: []Component{
				{Name: "api", Run: func(context.Context) error {
					<-release
					return nil
				}},
			},
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, errShutdownTimeout)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
