// Package monitor runs the collection loop: discover, collect, persist,
// evaluate and notify, then sleep until the next cycle.
package monitor

import (
	"context"

	"github.com/mfreeman451/meshmon/pkg/models"
)

// TargetSource returns the nodes to sample in one cycle.
type TargetSource interface {
	Discover(ctx context.Context) []models.Target
}

// SnapshotCollector samples one node.
type SnapshotCollector interface {
	Collect(ctx context.Context, target models.Target) *models.Snapshot
}

// Notifier delivers one alert to every configured channel.
type Notifier interface {
	Dispatch(ctx context.Context, alert *models.Alert) []models.ChannelResult
}
