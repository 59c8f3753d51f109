package monitor

import (
	"context"
	"errors"

	"github.com/mfreeman451/meshmon/pkg/config"
)

var (
	// ErrPersistence marks a store failure; the cycle is aborted.
	ErrPersistence = errors.New("persistence failure")

	// ErrCyclePanic is returned when a cycle panicked.
	ErrCyclePanic = errors.New("cycle panicked")
)

// Kind says how the loop reacts to an error.
type Kind int

const (
	// KindSkip errors are logged and the cycle continues.
	KindSkip Kind = iota
	// KindAbortCycle errors end the current cycle and trigger backoff.
	KindAbortCycle
	// KindFatal errors stop the process.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindAbortCycle:
		return "abort_cycle"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps an error to its Kind. Probe, discovery and channel errors
// are never surfaced as cycle errors, so anything unrecognised is a skip.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindSkip
	case errors.Is(err, config.ErrInvalidConfig):
		return KindFatal
	case errors.Is(err, ErrPersistence),
		errors.Is(err, ErrCyclePanic),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindAbortCycle
	default:
		return KindSkip
	}
}
