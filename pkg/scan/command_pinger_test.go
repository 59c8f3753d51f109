package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mfreeman451/meshmon/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCommandPinger(t *testing.T) {
	tests := []struct {
		name    string
		runErr  error
		want    bool
		wantErr bool
	}{
		{name: "reply", want: true},
		{name: "no reply", runErr: fmt.Errorf("%w: status 1", remote.ErrNonZeroExit)},
		{name: "ping hung", runErr: remote.ErrTimeout},
		{name: "binary missing", runErr: remote.ErrCommandFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := remote.NewMockExecutor(ctrl)

			exec.EXPECT().
				Run(gomock.Any(), "", "ping -c 1 -W 2 10.0.1.5", 3*time.Second).
				Return("", tt.runErr)

			got, err := NewCommandPinger(exec, 1500*time.Millisecond).Reachable(context.Background(), "10.0.1.5")
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandPinger_InvalidIP(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := NewCommandPinger(remote.NewMockExecutor(ctrl), time.Second).Reachable(context.Background(), "not-an-ip")
	require.ErrorIs(t, err, errInvalidIP)
}
