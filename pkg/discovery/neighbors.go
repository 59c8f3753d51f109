package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mfreeman451/meshmon/pkg/models"
)

// ospfNeighbor covers the field names used by the FRR releases in the field.
type ospfNeighbor struct {
	State        string `json:"state"`
	NbrState     string `json:"nbrState"`
	Address      string `json:"address"`
	IfaceAddress string `json:"ifaceAddress"`
}

func (n *ospfNeighbor) toModel(id string) models.Neighbor {
	state := n.State
	if state == "" {
		state = n.NbrState
	}

	addr := n.Address
	if addr == "" {
		addr = n.IfaceAddress
	}

	return models.Neighbor{NeighborID: id, Address: addr, State: state}
}

// ParseNeighbors decodes `show ip ospf neighbor json`. Older FRR maps each
// router id to a single object, newer releases map it to a list of
// adjacencies (one per interface). Both are accepted. Entries come back
// sorted by neighbor id so repeated samples compare cleanly.
func ParseNeighbors(data []byte) ([]models.Neighbor, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}

	var doc struct {
		Neighbors map[string]json.RawMessage `json:"neighbors"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	ids := make([]string, 0, len(doc.Neighbors))
	for id := range doc.Neighbors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	out := make([]models.Neighbor, 0, len(ids))

	for _, id := range ids {
		raw := bytes.TrimSpace(doc.Neighbors[id])
		if len(raw) == 0 {
			continue
		}

		switch raw[0] {
		case '{':
			var n ospfNeighbor
			if err := json.Unmarshal(raw, &n); err != nil {
				return nil, fmt.Errorf("%w: neighbor %s: %w", ErrMalformedOutput, id, err)
			}

			out = append(out, n.toModel(id))
		case '[':
			var list []ospfNeighbor
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, fmt.Errorf("%w: neighbor %s: %w", ErrMalformedOutput, id, err)
			}

			for i := range list {
				out = append(out, list[i].toModel(id))
			}
		}
	}

	return out, nil
}
