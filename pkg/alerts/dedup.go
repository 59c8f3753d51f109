package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfreeman451/meshmon/pkg/db"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// Deduplicator decides which alerts need a notification. Its only state is
// the database: an alert row is pending until it has a notification record,
// and a still-active condition maps onto its existing unresolved row instead
// of a new one. Nothing is cached in memory, so a restart neither repeats
// nor skips a notification.
type Deduplicator struct {
	store  db.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewDeduplicator(store db.Service, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Open persists every candidate whose condition has no unresolved row yet
// and sets each candidate's ID to its row. It returns the number of new rows.
func (d *Deduplicator) Open(ctx context.Context, candidates []models.Alert) (int, error) {
	opened := 0

	for i := range candidates {
		a := candidates[i]

		created, err := d.store.OpenAlert(ctx, &a)
		if err != nil {
			return opened, fmt.Errorf("%w %s/%s on %s: %w", errOpenAlert, a.Type, a.Severity, a.Hostname, err)
		}

		candidates[i].ID = a.ID

		if created {
			opened++

			d.logger.InfoContext(ctx, "alert opened",
				slog.Int64("alert_id", a.ID),
				slog.String("hostname", a.Hostname),
				slog.String("severity", string(a.Severity)),
				slog.String("alert_type", string(a.Type)))
		}
	}

	return opened, nil
}

// Pending returns the alerts that still need a notification, oldest first.
func (d *Deduplicator) Pending(ctx context.Context) ([]models.Alert, error) {
	return d.store.UnnotifiedAlerts(ctx)
}

// MarkNotified writes the notification record when at least one channel
// succeeded. With every channel failed, the alert stays pending and is
// retried next cycle. It reports whether a record was written.
func (d *Deduplicator) MarkNotified(ctx context.Context, alert *models.Alert, results []models.ChannelResult) (bool, error) {
	delivered := false

	for _, r := range results {
		if r.Success {
			delivered = true

			break
		}
	}

	if !delivered {
		return false, nil
	}

	if err := d.store.RecordNotification(ctx, alert.ID, d.now()); err != nil {
		return false, fmt.Errorf("%w for alert %d: %w", errMarkNotify, alert.ID, err)
	}

	return true, nil
}

// ResolveCleared resolves the host's open alerts whose condition was measured
// in snap and no longer holds. Dimensions the snapshot did not measure are
// left alone, as is everything on an unreachable node. It returns the number
// of alerts resolved.
func (d *Deduplicator) ResolveCleared(ctx context.Context, snap *models.Snapshot, candidates []models.Alert) (int, error) {
	if snap.Status != models.NodeOnline {
		return 0, nil
	}

	active := make(map[models.AlertKey]struct{}, len(candidates))
	for i := range candidates {
		active[candidates[i].Key()] = struct{}{}
	}

	open, err := d.store.OpenAlertsForHost(ctx, snap.Hostname)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errAutoResolve, err)
	}

	resolved := 0

	for i := range open {
		a := &open[i]

		if _, still := active[a.Key()]; still || !measured(snap, a) {
			continue
		}

		if err := d.store.ResolveAlert(ctx, a.ID); err != nil {
			return resolved, fmt.Errorf("%w %d: %w", errAutoResolve, a.ID, err)
		}

		resolved++

		d.logger.InfoContext(ctx, "alert auto-resolved",
			slog.Int64("alert_id", a.ID),
			slog.String("hostname", a.Hostname),
			slog.String("alert_type", string(a.Type)))
	}

	return resolved, nil
}

// measured reports whether snap carries a reading for the alert's dimension.
func measured(snap *models.Snapshot, a *models.Alert) bool {
	switch a.Type {
	case models.AlertNodeDown:
		return true
	case models.AlertHighCPU:
		return snap.CPUPercent != nil
	case models.AlertHighMemory:
		return snap.MemoryPercent != nil
	case models.AlertHighDisk:
		return snap.DiskPercent != nil
	case models.AlertServiceDown:
		for _, s := range snap.Services {
			if s.ServiceName == a.Subject {
				return true
			}
		}

		return false
	default:
		return false
	}
}
