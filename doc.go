// Package boidgrid provides a spatially partitioned flocking simulation engine with
// dynamic load balancing.
//
// The simulation plane is split into an N×N grid of partitions. Each partition owns
// the agents (boids) inside its bounds; agents migrate between neighboring
// partitions as they move, and overloaded partitions shrink their bounds so that
// neighbors take over part of their load.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/arloliu/boidgrid"
//	    "github.com/arloliu/boidgrid/behavior"
//	    "github.com/arloliu/boidgrid/source"
//	)
//
//	cfg := boidgrid.DefaultConfig()
//	strat, err := boidgrid.NewStrategy[boidgrid.Float64](&cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	flock, err := behavior.NewFlock[boidgrid.Float64](cfg.FlockParams())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := boidgrid.NewCoordinator(&cfg, source.NewUniform(90, 42), strat, flock)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := c.Run(ctx, 1000, 0); err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Features
//
//   - Toroidal or bounded grids of 1, 4, 9, 16, 25 or 36 partitions
//   - Snapshot/compute/commit ticks with partitions computed in parallel
//   - Three boundary strategies: naive, distribution-driven and negotiated
//   - Minimum partition size equal to the vision radius, so an agent's neighbors
//     always live in adjacent partitions
//   - Generic scalar type: float64 or deterministic Q47.16 fixed point
//
// # Architecture
//
// Every tick runs the same pipeline:
//
//	SNAPSHOT → COMPUTE → COMMIT → BALANCE → MIGRATE
//
// Balancing commits boundary changes before migration, so agents that end up
// outside a shrunken partition move to its neighbors in the same tick. After every
// tick the coordinator verifies agent conservation, single ownership and the
// minimum partition size.
//
// # Observability
//
// Hooks (OnTick, OnBoundsChanged, OnError), Subscribe for tick reports, a
// MetricsCollector (see the internal Prometheus implementation used by the
// simulation runner) and read-only accessors such as Bounds, Counts and Agents.
//
// See the examples/ directory for complete working examples.
package boidgrid
