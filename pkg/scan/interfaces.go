package scan

//go:generate mockgen -destination=mock_scanner.go -package=scan github.com/mfreeman451/meshmon/pkg/scan Pinger

import (
	"context"
)

// Pinger decides whether a node answers on the network. A false result with
// a nil error means the node did not reply in time; an error means the probe
// itself could not be run.
type Pinger interface {
	Reachable(ctx context.Context, ip string) (bool, error)
}
