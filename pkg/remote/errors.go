package remote

import "errors"

var (
	ErrTimeout       = errors.New("remote command timed out")
	ErrConnect       = errors.New("failed to connect")
	ErrAuth          = errors.New("authentication failed")
	ErrSession       = errors.New("failed to open session")
	ErrCommandFailed = errors.New("remote command failed")
	ErrNonZeroExit   = errors.New("command exited with non-zero status")
	ErrKeyLoad       = errors.New("failed to load ssh key")
)
