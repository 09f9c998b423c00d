package metrics

import "github.com/arloliu/boidgrid/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	metrics := metrics.NewNop()
//	c, err := boidgrid.NewCoordinator(&cfg, src, strat, behavior, boidgrid.WithMetrics(metrics))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// TickMetrics implementation

// RecordPhaseDuration discards the phase duration metric.
func (n *NopMetrics) RecordPhaseDuration(_ /* phase */ string, _ /* seconds */ float64) {
	// No-op
}

// RecordTick discards the tick metric.
func (n *NopMetrics) RecordTick(_ /* overloaded */ int) {
	// No-op
}

// RecordDroppedReport discards the dropped report metric.
func (n *NopMetrics) RecordDroppedReport() {
	// No-op
}

// BalanceMetrics implementation

// RecordBalanceAttempt discards the balance attempt metric.
func (n *NopMetrics) RecordBalanceAttempt(_ /* strategy */, _ /* outcome */ string) {
	// No-op
}

// RecordEdgeSteps discards the edge steps metric.
func (n *NopMetrics) RecordEdgeSteps(_ /* edge */ types.Edge, _ /* steps */ int) {
	// No-op
}

// MigrationMetrics implementation

// RecordMigration discards the migration metric.
func (n *NopMetrics) RecordMigration(_ /* direction */ types.Direction) {
	// No-op
}

// RecordPartitionCount discards the partition count metric.
func (n *NopMetrics) RecordPartitionCount(_ /* partitionID */ uint32, _ /* count */ int) {
	// No-op
}
