package testing

import (
	"sync"

	"github.com/arloliu/boidgrid/types"
)

// Recorder is a MetricsCollector that keeps counters in memory.
type Recorder struct {
	mu         sync.Mutex
	phases     map[string]int
	ticks      int
	dropped    int
	attempts   map[string]int
	edgeSteps  [4]int
	migrations map[types.Direction]int
	counts     map[uint32]int
}

var _ types.MetricsCollector = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		phases:     make(map[string]int),
		attempts:   make(map[string]int),
		migrations: make(map[types.Direction]int),
		counts:     make(map[uint32]int),
	}
}

// RecordPhaseDuration counts phase observations.
func (r *Recorder) RecordPhaseDuration(phase string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases[phase]++
}

// RecordTick counts ticks.
func (r *Recorder) RecordTick(_ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
}

// RecordDroppedReport counts dropped subscriber reports.
func (r *Recorder) RecordDroppedReport() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
}

// RecordBalanceAttempt counts attempts per outcome.
func (r *Recorder) RecordBalanceAttempt(_ string, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[outcome]++
}

// RecordEdgeSteps sums requested steps per edge.
func (r *Recorder) RecordEdgeSteps(edge types.Edge, steps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edgeSteps[edge] += steps
}

// RecordMigration counts transfers per direction.
func (r *Recorder) RecordMigration(direction types.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.migrations[direction]++
}

// RecordPartitionCount keeps the last count of every partition.
func (r *Recorder) RecordPartitionCount(partitionID uint32, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[partitionID] = count
}

// Phases returns how often phase was recorded.
func (r *Recorder) Phases(phase string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.phases[phase]
}

// Ticks returns the number of recorded ticks.
func (r *Recorder) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ticks
}

// Dropped returns the number of dropped reports.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.dropped
}

// Attempts returns the number of balance attempts with outcome.
func (r *Recorder) Attempts(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.attempts[outcome]
}

// EdgeSteps returns the total steps recorded for edge.
func (r *Recorder) EdgeSteps(edge types.Edge) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.edgeSteps[edge]
}

// Migrations returns the number of transfers in direction.
func (r *Recorder) Migrations(direction types.Direction) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.migrations[direction]
}

// PartitionCount returns the last recorded count of a partition.
func (r *Recorder) PartitionCount(partitionID uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[partitionID]
}
