// Package testing provides test utilities for the boidgrid library.
//
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - NewTestLogger: Logger writing to testing.T
//   - Drift, Still: Trivial behaviors with predictable positions
//   - Block: Agents spread evenly over a rectangle
//   - Recorder: MetricsCollector that counts what it records
//
// Example usage:
//
//	import (
//	    "testing"
//	    gridtest "github.com/arloliu/boidgrid/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    src := source.NewStatic(gridtest.Block(1, 35, 260, 260, 460, 460))
//	    c, err := boidgrid.NewCoordinator(&cfg, src, strat, gridtest.Still[boidgrid.Float64](),
//	        boidgrid.WithLogger(gridtest.NewTestLogger(t)))
//	    // ...
//	}
package testing
