package collector

import "errors"

var (
	errEmptyOutput = errors.New("empty probe output")
	errOutOfRange  = errors.New("value out of range")
)
