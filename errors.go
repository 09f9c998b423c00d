package boidgrid

import (
	"errors"

	"github.com/arloliu/boidgrid/types"
)

// Sentinel errors returned by the Coordinator.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceRequired is returned when the agent source is nil.
	ErrSourceRequired = errors.New("agent source is required")

	// ErrStrategyRequired is returned when the boundary strategy is nil.
	ErrStrategyRequired = errors.New("boundary strategy is required")

	// ErrBehaviorRequired is returned when the behavior is nil.
	ErrBehaviorRequired = errors.New("behavior is required")

	// ErrInvalidAgent is returned when the source provides an agent outside the plane
	// or an agent ID twice.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrAlreadyStarted is returned when Start is called on an already started coordinator.
	ErrAlreadyStarted = errors.New("coordinator already started")

	// ErrNotStarted is returned when Tick is called before Start.
	ErrNotStarted = errors.New("coordinator not started")

	// ErrCoordinatorFailed is returned by Tick after an invariant violation.
	// The grid state is no longer trustworthy and the coordinator must be discarded.
	ErrCoordinatorFailed = errors.New("coordinator failed")

	// ErrInvariantViolation is returned when a grid invariant no longer holds.
	ErrInvariantViolation = types.ErrInvariantViolation
)
