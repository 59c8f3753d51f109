package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// LocalExecutor runs commands through sh on the monitoring host itself. The
// host argument is ignored; it serves the routing daemon query, which is
// answered by the local router.
type LocalExecutor struct {
	Shell string
}

var _ Executor = (*LocalExecutor)(nil)

func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{Shell: "/bin/sh"}
}

func (l *LocalExecutor) Run(ctx context.Context, _, command string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, l.Shell, "-c", command) //nolint:gosec // command comes from operator config
	cmd.Stdout = &stdout
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %q after %s", ErrTimeout, command, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), fmt.Errorf("%w: %q: status %d", ErrNonZeroExit, command, exitErr.ExitCode())
	}

	return "", fmt.Errorf("%w: %q: %w", ErrCommandFailed, command, err)
}
