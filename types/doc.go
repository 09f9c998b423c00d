// Package types provides core type definitions and interfaces for the boidgrid library.
//
// This package contains shared types that are used across multiple packages in the
// boidgrid library. By keeping these types in a separate package, we avoid import cycles
// between the main boidgrid package and its internal implementations.
//
// Key types:
//   - Scalar: Numeric representation used for positions and bounds (Float64 or Fixed)
//   - Agent: A single simulated boid
//   - Rect: Partition bounds
//   - Edge, Direction: Edge identifiers and neighbor directions
//   - BoundaryStrategy: Load-balancing planner interface
//   - Behavior: External movement rule
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
