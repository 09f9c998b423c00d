package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/arloliu/boidgrid/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnTick)
	require.NotNil(t, hooks.OnBoundsChanged)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_Callbacks(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NoError(t, hooks.OnTick(ctx, types.TickReport{Tick: 1, Counts: []int{3, 4}}))
	require.NoError(t, hooks.OnBoundsChanged(ctx, types.BoundsChange{OverloadedID: 5, Affected: []uint32{2, 5}}))
	require.NoError(t, hooks.OnError(ctx, context.Canceled))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks become no-ops", func(t *testing.T) {
		h := Fill(nil)

		require.NotNil(t, h.OnTick)
		require.NotNil(t, h.OnBoundsChanged)
		require.NotNil(t, h.OnError)
	})

	t.Run("keeps user callbacks and fills the rest", func(t *testing.T) {
		errBoom := errors.New("boom")
		var ticks int
		h := Fill(&types.Hooks{
			OnTick: func(context.Context, types.TickReport) error {
				ticks++
				return errBoom
			},
		})

		require.ErrorIs(t, h.OnTick(context.Background(), types.TickReport{}), errBoom)
		require.Equal(t, 1, ticks)
		require.NoError(t, h.OnError(context.Background(), errBoom))
		require.NoError(t, h.OnBoundsChanged(context.Background(), types.BoundsChange{}))
	})
}
