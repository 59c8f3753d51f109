package alerts

import "errors"

var (
	errOpenAlert   = errors.New("failed to open alert")
	errMarkNotify  = errors.New("failed to record notification")
	errAutoResolve = errors.New("failed to auto-resolve alert")
)
