package config

import "errors"

var (
	// ErrInvalidConfig wraps every load or validation failure. It is fatal at startup.
	ErrInvalidConfig = errors.New("invalid configuration")

	errInvalidDuration = errors.New("invalid duration")
)
