package scan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/mfreeman451/meshmon/pkg/remote"
)

// CommandPinger shells out to the system ping binary. It is the fallback when
// the process may open neither kind of ICMP socket.
type CommandPinger struct {
	exec    remote.Executor
	timeout time.Duration
}

var _ Pinger = (*CommandPinger)(nil)

func NewCommandPinger(exec remote.Executor, timeout time.Duration) *CommandPinger {
	return &CommandPinger{exec: exec, timeout: timeout}
}

func (p *CommandPinger) Reachable(ctx context.Context, ip string) (bool, error) {
	if net.ParseIP(ip) == nil {
		return false, fmt.Errorf("%w: %q", errInvalidIP, ip)
	}

	wait := int(math.Ceil(p.timeout.Seconds()))
	if wait < 1 {
		wait = 1
	}

	// ping's own -W bounds the wait; the extra second lets it exit cleanly
	limit := time.Duration(wait)*time.Second + time.Second

	_, err := p.exec.Run(ctx, "", fmt.Sprintf("ping -c 1 -W %d %s", wait, ip), limit)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, remote.ErrNonZeroExit), errors.Is(err, remote.ErrTimeout):
		return false, nil
	default:
		return false, err
	}
}
