package metrics

import (
	"testing"

	"github.com/arloliu/boidgrid/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_TickMetrics(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordPhaseDuration("compute", 0.002)
		metrics.RecordPhaseDuration("", -1)
		metrics.RecordTick(3)
		metrics.RecordTick(0)
		metrics.RecordDroppedReport()
	})
}

func TestNopMetrics_BalanceMetrics(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordBalanceAttempt("naive", "applied")
		metrics.RecordBalanceAttempt("", "")
		metrics.RecordEdgeSteps(types.EdgeLeft, 4)
		metrics.RecordEdgeSteps(types.Edge(99), -1)
	})
}

func TestNopMetrics_MigrationMetrics(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordMigration(types.NorthWest)
		metrics.RecordMigration(types.Direction(42))
		metrics.RecordPartitionCount(5, 35)
		metrics.RecordPartitionCount(0, -1)
	})
}
