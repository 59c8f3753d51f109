package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mfreeman451/meshmon/pkg/models"
)

// StoreSnapshot upserts the node row and appends the sample rows. A metrics
// row is written only for an online node with at least one metric; an
// unreachable node stores its status and nothing else.
func (db *DB) StoreSnapshot(ctx context.Context, snap *models.Snapshot) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() { db.rollbackOnError(tx, err) }()

	ts := snap.Timestamp.UTC()

	if err = upsertNode(ctx, tx, snap); err != nil {
		return err
	}

	if snap.Status == models.NodeOnline && snap.HasMetrics() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO metrics (hostname, timestamp, cpu_percent, memory_percent, disk_percent, uptime_seconds)
			VALUES (?, ?, ?, ?, ?, ?)
		`, snap.Hostname, ts,
			nullFloat(snap.CPUPercent),
			nullFloat(snap.MemoryPercent),
			nullFloat(snap.DiskPercent),
			nullInt(snap.UptimeSeconds))
		if err != nil {
			return fmt.Errorf("%w metrics: %w", ErrFailedToInsert, err)
		}
	}

	for _, svc := range snap.Services {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO services (hostname, timestamp, service_name, status)
			VALUES (?, ?, ?, ?)
		`, snap.Hostname, ts, svc.ServiceName, svc.Status)
		if err != nil {
			return fmt.Errorf("%w service %s: %w", ErrFailedToInsert, svc.ServiceName, err)
		}
	}

	for _, n := range snap.Neighbors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO neighbors (hostname, timestamp, neighbor_id, neighbor_ip, state)
			VALUES (?, ?, ?, ?, ?)
		`, snap.Hostname, ts, n.NeighborID, n.NeighborIP, n.State)
		if err != nil {
			return fmt.Errorf("%w neighbor %s: %w", ErrFailedToInsert, n.NeighborID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit snapshot: %w", ErrDatabaseError, err)
	}

	return nil
}

func upsertNode(ctx context.Context, tx *sql.Tx, snap *models.Snapshot) error {
	nodeType := snap.Type
	if nodeType == "" {
		nodeType = models.DefaultNodeType
	}

	// neighbors_at only moves when a neighbor table was read, so a failed
	// neighbor probe keeps the previous adjacencies visible.
	var neighborsAt sql.NullTime
	if snap.NeighborsSampled {
		neighborsAt = sql.NullTime{Time: snap.Timestamp.UTC(), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (hostname, ip, type, last_seen, status, neighbors_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hostname) DO UPDATE SET
			ip = excluded.ip,
			type = excluded.type,
			last_seen = excluded.last_seen,
			status = excluded.status,
			neighbors_at = COALESCE(excluded.neighbors_at, nodes.neighbors_at)
	`, snap.Hostname, snap.IP, nodeType, snap.Timestamp.UTC(), string(snap.Status), neighborsAt)
	if err != nil {
		return fmt.Errorf("%w node %s: %w", ErrFailedToUpdate, snap.Hostname, err)
	}

	return nil
}
