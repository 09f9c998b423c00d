package types

import "errors"

// Sentinel errors for the boidgrid library.
//
// These errors provide type-safe error checking using errors.Is().
// Components wrap them with context using fmt.Errorf("%s: %w", msg, err).
var (
	// ErrInvalidGridSize is returned when a grid size is outside the supported range.
	ErrInvalidGridSize = errors.New("invalid grid size")

	// ErrInvalidPartitionID is returned when a partition ID is outside 1..N*N.
	ErrInvalidPartitionID = errors.New("invalid partition ID")

	// ErrInvalidEdge is returned when an edge identifier is outside 0..3.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrAgentNotFound is returned when a partition does not own the requested agent.
	ErrAgentNotFound = errors.New("agent not found in partition")

	// ErrDuplicateAgent is returned when a partition is asked to accept an agent it already owns.
	ErrDuplicateAgent = errors.New("agent already owned by partition")

	// ErrInvariantViolation is returned when a grid invariant no longer holds.
	// It indicates a programming error and is never retried.
	ErrInvariantViolation = errors.New("invariant violation")
)
