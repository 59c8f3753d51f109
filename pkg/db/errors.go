// Package errors pkg/db/errors.go provides errors for the db package.

package db

import "errors"

var (
	ErrDatabaseError = errors.New("database error")
	ErrAlertNotFound = errors.New("alert not found")
	ErrNodeNotFound  = errors.New("node not found")

	// Operation errors.

	ErrFailedToBeginTx   = errors.New("failed to begin transaction")
	ErrFailedToScan      = errors.New("failed to scan")
	ErrFailedToQuery     = errors.New("failed to query")
	ErrFailedToInsert    = errors.New("failed to insert")
	ErrFailedToUpdate    = errors.New("failed to update")
	ErrFailedToInit      = errors.New("failed to initialize schema")
	ErrFailedToMigrate   = errors.New("failed to migrate legacy schema")
	ErrFailedToEnableWAL = errors.New("failed to enable WAL mode")
	ErrFailedOpenDB      = errors.New("failed to open database")
)
