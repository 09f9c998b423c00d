package types

import "time"

// TickReport summarizes one completed tick.
type TickReport struct {
	// Tick is the 1-based number of the completed tick.
	Tick uint64

	// Counts holds the agent count per partition, indexed by partition ID - 1.
	Counts []int

	// Overloaded is the number of partitions whose count exceeded the threshold
	// after the compute phase.
	Overloaded int

	// Migrations is the number of agents transferred between partitions.
	Migrations int

	// BoundaryChanges is the number of load-balancing requests that were applied.
	BoundaryChanges int

	// Rejected is the number of load-balancing requests rejected by negotiation.
	Rejected int

	Duration time.Duration
}

// BoundsChange describes a committed load-balancing change.
type BoundsChange struct {
	// OverloadedID is the partition that requested the change.
	OverloadedID uint32

	// Steps is the requested step count per edge of the overloaded partition.
	Steps EdgeSteps

	// Affected lists every partition whose bounds changed, in ascending order.
	Affected []uint32

	Strategy string
}
