package hooks

import (
	"context"

	"github.com/arloliu/boidgrid/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.TickReport) error   = (*NopHooks)(nil).OnTick
	_ func(context.Context, types.BoundsChange) error = (*NopHooks)(nil).OnBoundsChanged
	_ func(context.Context, error) error              = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnTick:          h.OnTick,
		OnBoundsChanged: h.OnBoundsChanged,
		OnError:         h.OnError,
	}
}

// Fill returns hooks with every nil callback of h replaced by a no-op.
//
// Parameters:
//   - h: User hooks (may be nil)
//
// Returns:
//   - types.Hooks: Hooks whose callbacks are all non-nil
func Fill(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}

	if h.OnTick != nil {
		out.OnTick = h.OnTick
	}
	if h.OnBoundsChanged != nil {
		out.OnBoundsChanged = h.OnBoundsChanged
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnTick is a no-op implementation.
func (h *NopHooks) OnTick(ctx context.Context, report types.TickReport) error {
	return nil
}

// OnBoundsChanged is a no-op implementation.
func (h *NopHooks) OnBoundsChanged(ctx context.Context, change types.BoundsChange) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
