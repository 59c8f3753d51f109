// Package db pkg/db/interfaces.go
package db

import (
	"context"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/meshmon/pkg/db Service

// Service represents all database operations. It is the only writer of
// every table.
type Service interface {
	// Collection writes.

	// StoreSnapshot writes one node's sample in a single transaction.
	StoreSnapshot(ctx context.Context, snap *models.Snapshot) error

	// Alert lifecycle.

	// OpenAlert persists alert unless an unresolved row with the same key
	// exists. alert.ID is set to the new or the existing row id; created
	// reports which.
	OpenAlert(ctx context.Context, alert *models.Alert) (created bool, err error)
	UnnotifiedAlerts(ctx context.Context) ([]models.Alert, error)
	RecordNotification(ctx context.Context, alertID int64, sentAt time.Time) error
	// ResolveAlert is idempotent; resolving a resolved alert succeeds.
	ResolveAlert(ctx context.Context, id int64) error
	OpenAlertsForHost(ctx context.Context, hostname string) ([]models.Alert, error)

	// Reads.

	GetNodes(ctx context.Context) ([]models.NodeOverview, error)
	GetNodeDetail(ctx context.Context, hostname string, since time.Time) (*models.NodeDetail, error)
	GetMetricHistory(ctx context.Context, hostname string, since time.Time) ([]models.MetricSample, error)
	GetAlert(ctx context.Context, id int64) (*models.Alert, error)
	GetAlerts(ctx context.Context, resolved bool, limit int) ([]models.Alert, error)
	GetSummary(ctx context.Context) (*models.Summary, error)
	GetTopology(ctx context.Context) (*models.Topology, error)

	Close() error
}
