package discovery

//go:generate mockgen -destination=mock_discovery.go -package=discovery github.com/mfreeman451/meshmon/pkg/discovery NeighborQuery

import (
	"context"

	"github.com/mfreeman451/meshmon/pkg/models"
)

// NeighborQuery asks the local routing daemon for its current neighbors.
type NeighborQuery interface {
	Neighbors(ctx context.Context) ([]models.Neighbor, error)
}
