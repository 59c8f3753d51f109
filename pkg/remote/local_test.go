package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalExecutor(t *testing.T) {
	l := NewLocalExecutor()
	ctx := context.Background()

	out, err := l.Run(ctx, "ignored", "echo hello", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = l.Run(ctx, "", "echo partial; exit 3", time.Second)
	require.ErrorIs(t, err, ErrNonZeroExit)
	assert.Equal(t, "partial\n", out)

	_, err = l.Run(ctx, "", "sleep 5", 100*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}
