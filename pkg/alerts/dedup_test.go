package alerts

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/db"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) *db.DB {
	t.Helper()

	store, err := db.New(context.Background(), filepath.Join(t.TempDir(), "metrics.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

var (
	allFailed = []models.ChannelResult{{Channel: "email", Err: errors.New("smtp down")}, {Channel: "slack"}}
	oneOK     = []models.ChannelResult{{Channel: "email", Err: errors.New("smtp down")}, {Channel: "slack", Success: true}}
)

func TestDeduplicator_ActiveConditionNotifiesOnce(t *testing.T) {
	store := newStore(t)
	d := NewDeduplicator(store, slog.Default())
	ctx := context.Background()

	hot := online(func(s *models.Snapshot) { s.CPUPercent = ptr(95) })

	// three cycles with the same condition
	for i := 0; i < 3; i++ {
		opened, err := d.Open(ctx, Evaluate(hot, config.DefaultThresholds()))
		require.NoError(t, err)

		if i == 0 {
			assert.Equal(t, 1, opened)
		} else {
			assert.Zero(t, opened)
		}

		pending, err := d.Pending(ctx)
		require.NoError(t, err)

		if i == 0 {
			require.Len(t, pending, 1)

			recorded, err := d.MarkNotified(ctx, &pending[0], oneOK)
			require.NoError(t, err)
			assert.True(t, recorded)
		} else {
			assert.Empty(t, pending)
		}
	}
}

func TestDeduplicator_FailedDeliveryStaysPending(t *testing.T) {
	store := newStore(t)
	d := NewDeduplicator(store, slog.Default())
	ctx := context.Background()

	_, err := d.Open(ctx, Evaluate(&models.Snapshot{Hostname: "edge-1", Status: models.NodeUnreachable}, config.DefaultThresholds()))
	require.NoError(t, err)

	pending, err := d.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	recorded, err := d.MarkNotified(ctx, &pending[0], allFailed)
	require.NoError(t, err)
	assert.False(t, recorded)

	again, err := d.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, pending[0].ID, again[0].ID)
}

func TestDeduplicator_ResolvedConditionRenotifies(t *testing.T) {
	store := newStore(t)
	d := NewDeduplicator(store, slog.Default())
	ctx := context.Background()

	candidates := Evaluate(online(func(s *models.Snapshot) {
		s.Services = []models.ServiceState{{ServiceName: "etcd", Status: "failed"}}
	}), config.DefaultThresholds())

	_, err := d.Open(ctx, candidates)
	require.NoError(t, err)

	first := candidates[0].ID
	require.NotZero(t, first)

	_, err = d.MarkNotified(ctx, &candidates[0], oneOK)
	require.NoError(t, err)
	require.NoError(t, store.ResolveAlert(ctx, first))

	again := Evaluate(online(func(s *models.Snapshot) {
		s.Services = []models.ServiceState{{ServiceName: "etcd", Status: "failed"}}
	}), config.DefaultThresholds())

	opened, err := d.Open(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
	assert.NotEqual(t, first, again[0].ID)

	pending, err := d.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, again[0].ID, pending[0].ID)
}

func TestDeduplicator_ResolveCleared(t *testing.T) {
	store := newStore(t)
	d := NewDeduplicator(store, slog.Default())
	ctx := context.Background()
	th := config.DefaultThresholds()

	bad := online(func(s *models.Snapshot) {
		s.CPUPercent = ptr(95)
		s.DiskPercent = ptr(95)
		s.Services = []models.ServiceState{{ServiceName: "etcd", Status: "failed"}}
	})

	_, err := d.Open(ctx, Evaluate(bad, th))
	require.NoError(t, err)

	_, err = d.Open(ctx, Evaluate(&models.Snapshot{Hostname: "core-1", Status: models.NodeUnreachable}, th))
	require.NoError(t, err)

	t.Run("unreachable resolves nothing", func(t *testing.T) {
		snap := &models.Snapshot{Hostname: "core-1", Status: models.NodeUnreachable}

		n, err := d.ResolveCleared(ctx, snap, Evaluate(snap, th))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("only measured dimensions clear", func(t *testing.T) {
		// cpu dropped to a warning, disk not sampled, etcd recovered
		snap := online(func(s *models.Snapshot) {
			s.CPUPercent = ptr(75)
			s.Services = []models.ServiceState{{ServiceName: "etcd", Status: "active"}}
		})
		candidates := Evaluate(snap, th)

		n, err := d.ResolveCleared(ctx, snap, candidates)
		require.NoError(t, err)
		assert.Equal(t, 3, n, "node_down, critical cpu and etcd")

		open, err := store.OpenAlertsForHost(ctx, "core-1")
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, models.AlertHighDisk, open[0].Type)
	})
}

func TestDeduplicator_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := db.NewMockService(ctrl)
	d := NewDeduplicator(store, slog.Default())
	ctx := context.Background()

	boom := errors.New("disk I/O error")

	store.EXPECT().OpenAlert(gomock.Any(), gomock.Any()).Return(false, boom)

	_, err := d.Open(ctx, []models.Alert{{Hostname: "a", Type: models.AlertNodeDown, Severity: models.SeverityCritical}})
	require.ErrorIs(t, err, boom)

	store.EXPECT().RecordNotification(gomock.Any(), int64(7), gomock.Any()).Return(boom)

	_, err = d.MarkNotified(ctx, &models.Alert{ID: 7}, oneOK)
	require.ErrorIs(t, err, boom)
}
