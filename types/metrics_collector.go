package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking. Methods are called from the goroutine
// running Tick; TickMetrics.RecordPhaseDuration may also be called while compute
// workers are running, so implementations must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	TickMetrics
	BalanceMetrics
	MigrationMetrics
}

// TickMetrics defines metrics for the tick pipeline.
type TickMetrics interface {
	// RecordPhaseDuration records the time taken by one tick phase.
	//
	// Parameters:
	//   - phase: Phase name ("snapshot", "compute", "balance", "migrate")
	//   - seconds: Time taken in seconds
	RecordPhaseDuration(phase string, seconds float64)

	// RecordTick records a completed tick.
	//
	// Parameters:
	//   - overloaded: Number of partitions above the threshold after compute
	RecordTick(overloaded int)

	// RecordDroppedReport records a tick report that a slow subscriber did not receive.
	RecordDroppedReport()
}

// BalanceMetrics defines metrics for load balancing.
type BalanceMetrics interface {
	// RecordBalanceAttempt records the outcome of one load-balancing request.
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - outcome: "applied", "rejected", "noop"
	RecordBalanceAttempt(strategy string, outcome string)

	// RecordEdgeSteps records the steps requested on one edge of an overloaded partition.
	RecordEdgeSteps(edge Edge, steps int)
}

// MigrationMetrics defines metrics for agent migration.
type MigrationMetrics interface {
	// RecordMigration records one agent transfer in the given direction.
	RecordMigration(direction Direction)

	// RecordPartitionCount sets the current agent count of a partition (gauge metric).
	RecordPartitionCount(partitionID uint32, count int)
}
