package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/mfreeman451/meshmon/pkg/remote"
)

// VtyshQuery runs the FRR neighbor command through an Executor. With a
// LocalExecutor it queries the router the monitor runs on.
type VtyshQuery struct {
	exec    remote.Executor
	host    string
	command string
	timeout time.Duration
}

var _ NeighborQuery = (*VtyshQuery)(nil)

func NewVtyshQuery(exec remote.Executor, host, command string, timeout time.Duration) *VtyshQuery {
	return &VtyshQuery{
		exec:    exec,
		host:    host,
		command: command,
		timeout: timeout,
	}
}

func (q *VtyshQuery) Neighbors(ctx context.Context) ([]models.Neighbor, error) {
	out, err := q.exec.Run(ctx, q.host, q.command, q.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return ParseNeighbors([]byte(out))
}
