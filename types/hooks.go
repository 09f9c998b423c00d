package types

import "context"

// Hooks defines callbacks for coordinator events.
//
// All hooks are optional and are called synchronously from Tick after the
// corresponding phase completes, so they observe a consistent grid. Hooks must
// complete quickly and must not call Tick. Hook errors are logged and do not fail
// the tick.
//
// Example:
//
//	hooks := &boidgrid.Hooks{
//	    OnTick: func(ctx context.Context, report boidgrid.TickReport) error {
//	        log.Printf("tick %d: %v", report.Tick, report.Counts)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnTick is called after every completed tick.
	OnTick func(ctx context.Context, report TickReport) error

	// OnBoundsChanged is called after a load-balancing change is committed.
	OnBoundsChanged func(ctx context.Context, change BoundsChange) error

	// OnError is called when a tick fails.
	OnError func(ctx context.Context, err error) error
}
