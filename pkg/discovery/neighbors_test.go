package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/mfreeman451/meshmon/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const objectFormat = `{
  "neighbors": {
    "10.0.0.2": {"priority": 1, "state": "Full/DR", "address": "10.0.1.2", "ifaceName": "eth0"},
    "10.0.0.1": {"priority": 1, "state": "Full/Backup", "address": "10.0.1.1", "ifaceName": "eth0"}
  }
}`

const listFormat = `{
  "neighbors": {
    "10.0.0.3": [
      {"nbrState": "Full/DROther", "ifaceAddress": "10.0.2.3", "ifaceName": "eth1"},
      {"nbrState": "2-Way/DROther", "ifaceAddress": "10.0.3.3", "ifaceName": "eth2"}
    ]
  }
}`

func TestParseNeighbors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.Neighbor
		wantErr bool
	}{
		{
			name:  "object per router id",
			input: objectFormat,
			want: []models.Neighbor{
				{NeighborID: "10.0.0.1", Address: "10.0.1.1", State: "Full/Backup"},
				{NeighborID: "10.0.0.2", Address: "10.0.1.2", State: "Full/DR"},
			},
		},
		{
			name:  "list per router id",
			input: listFormat,
			want: []models.Neighbor{
				{NeighborID: "10.0.0.3", Address: "10.0.2.3", State: "Full/DROther"},
				{NeighborID: "10.0.0.3", Address: "10.0.3.3", State: "2-Way/DROther"},
			},
		},
		{
			name:  "no neighbors",
			input: `{"neighbors": {}}`,
			want:  []models.Neighbor{},
		},
		{
			name:  "missing neighbors key",
			input: `{}`,
			want:  []models.Neighbor{},
		},
		{name: "empty", input: "  \n", wantErr: true},
		{name: "not json", input: "% OSPF instance not found", wantErr: true},
		{name: "bad entry", input: `{"neighbors": {"1.1.1.1": {"state": 5}}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNeighbors([]byte(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedOutput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVtyshQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := remote.NewMockExecutor(ctrl)

	cmd := "vtysh -c 'show ip ospf neighbor json'"

	exec.EXPECT().Run(gomock.Any(), "", cmd, 5*time.Second).Return(objectFormat, nil)

	q := NewVtyshQuery(exec, "", cmd, 5*time.Second)

	got, err := q.Neighbors(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	exec.EXPECT().Run(gomock.Any(), "", cmd, 5*time.Second).Return("", remote.ErrTimeout)

	_, err = q.Neighbors(context.Background())
	require.ErrorIs(t, err, ErrQueryFailed)
	require.ErrorIs(t, err, remote.ErrTimeout)
}
