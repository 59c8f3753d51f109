// Package db pkg/db/db.go provides the SQLite store for nodes, samples and alerts.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	CREATE TABLE IF NOT EXISTS nodes (
		hostname TEXT PRIMARY KEY,
		ip TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'unknown',
		last_seen TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'unknown',
		neighbors_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		cpu_percent REAL,
		memory_percent REAL,
		disk_percent REAL,
		uptime_seconds INTEGER,
		FOREIGN KEY (hostname) REFERENCES nodes(hostname)
	);

	CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		service_name TEXT NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (hostname) REFERENCES nodes(hostname)
	);

	CREATE TABLE IF NOT EXISTS neighbors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		neighbor_id TEXT NOT NULL,
		neighbor_ip TEXT NOT NULL,
		state TEXT NOT NULL,
		FOREIGN KEY (hostname) REFERENCES nodes(hostname)
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP NOT NULL,
		hostname TEXT NOT NULL,
		severity TEXT NOT NULL,
		alert_type TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT 0,
		resolved_at TIMESTAMP,
		CHECK ((resolved = 0 AND resolved_at IS NULL) OR (resolved = 1 AND resolved_at IS NOT NULL))
	);

	CREATE TABLE IF NOT EXISTS notification_records (
		alert_id INTEGER PRIMARY KEY,
		sent_at TIMESTAMP NOT NULL,
		FOREIGN KEY (alert_id) REFERENCES alerts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_host_time ON metrics(hostname, timestamp);
	CREATE INDEX IF NOT EXISTS idx_services_host_name ON services(hostname, service_name);
	CREATE INDEX IF NOT EXISTS idx_neighbors_host_time ON neighbors(hostname, timestamp);
	CREATE INDEX IF NOT EXISTS idx_alerts_open
		ON alerts(hostname, alert_type, severity, subject, resolved);
	`

	alertColumns = `id, timestamp, hostname, severity, alert_type, subject, message, resolved, resolved_at`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ Service = (*DB)(nil)

// New opens (creating if needed) the database at dbPath, enables WAL and
// brings the schema up to date.
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode so API reads do not block the collector
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{
		DB:     sqlDB,
		logger: logger,
		now:    time.Now,
	}

	if err := db.migrateLegacy(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToMigrate, err)
	}

	if err := db.initSchema(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	if err := db.addNeighborsAt(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToMigrate, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, createTablesSQL)

	return err
}

func (db *DB) rollbackOnError(tx *sql.Tx, err error) {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Error rolling back transaction", slog.Any("error", rbErr))
		}
	}
}

func (db *DB) closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		db.logger.Error("failed to close rows", slog.Any("error", err))
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	return &v.Float64
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}

	return &v.Int64
}
