package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAlert(row scanner) (models.Alert, error) {
	var (
		a          models.Alert
		severity   string
		alertType  string
		resolvedAt sql.NullTime
	)

	if err := row.Scan(&a.ID, &a.Timestamp, &a.Hostname, &severity, &alertType,
		&a.Subject, &a.Message, &a.Resolved, &resolvedAt); err != nil {
		return a, err
	}

	a.Severity = models.Severity(severity)
	a.Type = models.AlertType(alertType)

	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}

	return a, nil
}

func (db *DB) queryAlerts(ctx context.Context, query string, args ...any) ([]models.Alert, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w alerts: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	alerts := []models.Alert{}

	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("%w alert row: %w", ErrFailedToScan, err)
		}

		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w alerts: %w", ErrFailedToQuery, err)
	}

	return alerts, nil
}

func (db *DB) OpenAlert(ctx context.Context, alert *models.Alert) (created bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() { db.rollbackOnError(tx, err) }()

	var existing int64

	err = tx.QueryRowContext(ctx, `
		SELECT id FROM alerts
		WHERE hostname = ? AND alert_type = ? AND severity = ? AND subject = ? AND resolved = 0
		ORDER BY id
		LIMIT 1
	`, alert.Hostname, string(alert.Type), string(alert.Severity), alert.Subject).Scan(&existing)

	switch {
	case err == nil:
		alert.ID = existing
		err = tx.Commit()

		return false, err
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("%w open alert: %w", ErrFailedToQuery, err)
	}

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = db.now()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO alerts (timestamp, hostname, severity, alert_type, subject, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ts.UTC(), alert.Hostname, string(alert.Severity), string(alert.Type), alert.Subject, alert.Message)
	if err != nil {
		return false, fmt.Errorf("%w alert: %w", ErrFailedToInsert, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit alert: %w", ErrDatabaseError, err)
	}

	alert.ID = id
	alert.Timestamp = ts.UTC()

	return true, nil
}

// UnnotifiedAlerts returns unresolved alerts without a notification record, oldest first.
func (db *DB) UnnotifiedAlerts(ctx context.Context) ([]models.Alert, error) {
	return db.queryAlerts(ctx, `
		SELECT `+alertColumns+`
		FROM alerts a
		WHERE a.resolved = 0
		AND NOT EXISTS (SELECT 1 FROM notification_records n WHERE n.alert_id = a.id)
		ORDER BY a.id ASC
	`)
}

func (db *DB) RecordNotification(ctx context.Context, alertID int64, sentAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notification_records (alert_id, sent_at)
		VALUES (?, ?)
	`, alertID, sentAt.UTC())
	if err != nil {
		return fmt.Errorf("%w notification record: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (db *DB) ResolveAlert(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE alerts
		SET resolved = 1, resolved_at = ?
		WHERE id = ? AND resolved = 0
	`, db.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("%w alert %d: %w", ErrFailedToUpdate, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if n > 0 {
		return nil
	}

	// already resolved is a success; unknown id is not
	if _, err := db.GetAlert(ctx, id); err != nil {
		return err
	}

	return nil
}

func (db *DB) GetAlert(ctx context.Context, id int64) (*models.Alert, error) {
	row := db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)

	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrAlertNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w alert %d: %w", ErrFailedToQuery, id, err)
	}

	return &a, nil
}

// GetAlerts returns alerts with the given resolved flag, newest first.
func (db *DB) GetAlerts(ctx context.Context, resolved bool, limit int) ([]models.Alert, error) {
	return db.queryAlerts(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE resolved = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, resolved, limit)
}

func (db *DB) OpenAlertsForHost(ctx context.Context, hostname string) ([]models.Alert, error) {
	return db.queryAlerts(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE hostname = ? AND resolved = 0
		ORDER BY id ASC
	`, hostname)
}
