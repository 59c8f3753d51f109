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

package db

import (
	"context"
	"fmt"
	"log/slog"
)

// migrateLegacy upgrades a metrics.db written by the earlier mesh-monitor
// scripts, which share the default path. Those databases lack alerts.subject,
// keep adjacency rows in ospf_neighbors and notification marks in
// sent_notifications. The first two steps run before the schema is created
// so its indexes see the new column; the table moves run after.
func (db *DB) migrateLegacy(ctx context.Context) error {
	exists, err := db.tableExists(ctx, "alerts")
	if err != nil || !exists {
		return err
	}

	hasSubject, err := db.columnExists(ctx, "alerts", "subject")
	if err != nil {
		return err
	}

	if !hasSubject {
		db.logger.Info("Running migration: adding alerts.subject")

		if _, err := db.ExecContext(ctx, `ALTER TABLE alerts ADD COLUMN subject TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("failed to add alerts.subject: %w", err)
		}

		// legacy service alerts name the unit only in the message: "Service frr on core-1 is failed"
		if _, err := db.ExecContext(ctx, `
			UPDATE alerts
			SET subject = substr(message, 9, instr(message, ' on ') - 9)
			WHERE alert_type = 'service_down' AND message LIKE 'Service % on %'`); err != nil {
			return fmt.Errorf("failed to backfill alerts.subject: %w", err)
		}
	}

	if err := db.initSchema(ctx); err != nil {
		return err
	}

	if err := db.moveLegacyTable(ctx, "ospf_neighbors", `
		INSERT INTO neighbors (hostname, timestamp, neighbor_id, neighbor_ip, state)
		SELECT hostname, timestamp, COALESCE(neighbor_id, ''), COALESCE(neighbor_ip, ''), COALESCE(state, '')
		FROM ospf_neighbors
		WHERE timestamp IS NOT NULL AND hostname IN (SELECT hostname FROM nodes)
		ORDER BY id`); err != nil {
		return err
	}

	return db.moveLegacyTable(ctx, "sent_notifications", `
		INSERT OR IGNORE INTO notification_records (alert_id, sent_at)
		SELECT s.alert_id, COALESCE(s.sent_at, CURRENT_TIMESTAMP)
		FROM sent_notifications s
		JOIN alerts a ON a.id = s.alert_id`)
}

// addNeighborsAt adds nodes.neighbors_at to databases created before it
// existed. Until a node's next sample the column stays NULL and readers fall
// back to its newest neighbor rows.
func (db *DB) addNeighborsAt(ctx context.Context) error {
	has, err := db.columnExists(ctx, "nodes", "neighbors_at")
	if err != nil || has {
		return err
	}

	db.logger.Info("Running migration: adding nodes.neighbors_at")

	if _, err := db.ExecContext(ctx, `ALTER TABLE nodes ADD COLUMN neighbors_at TIMESTAMP`); err != nil {
		return fmt.Errorf("failed to add nodes.neighbors_at: %w", err)
	}

	return nil
}

// moveLegacyTable copies rows with copySQL and drops the legacy table, in one transaction.
func (db *DB) moveLegacyTable(ctx context.Context, table, copySQL string) (err error) {
	exists, err := db.tableExists(ctx, table)
	if err != nil || !exists {
		return err
	}

	db.logger.Info("Running migration: importing legacy table", slog.String("table", table))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() { db.rollbackOnError(tx, err) }()

	res, err := tx.ExecContext(ctx, copySQL)
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", table, err)
	}

	if _, err = tx.ExecContext(ctx, "DROP TABLE "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	db.logger.Info("Legacy table imported", slog.String("table", table), slog.Int64("rows", n))

	return nil
}

func (db *DB) tableExists(ctx context.Context, name string) (bool, error) {
	var count int

	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name=?
	`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if %s table exists: %w", name, err)
	}

	return count > 0, nil
}

func (db *DB) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, fmt.Errorf("%w table info: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("%w column name: %w", ErrFailedToScan, err)
		}

		if name == column {
			return true, nil
		}
	}

	return false, rows.Err()
}
