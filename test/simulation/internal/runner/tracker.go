package runner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/test/simulation/internal/metrics"
)

// Sentinel errors for report stream checks.
var (
	ErrReportGap       = errors.New("tick report gap detected")
	ErrReportDuplicate = errors.New("duplicate tick report detected")
	ErrAgentCount      = errors.New("agent count changed")
)

// ReportGapError describes reports that never reached the tracker.
type ReportGapError struct {
	ExpectedTick uint64
	ReceivedTick uint64
}

func (e *ReportGapError) Error() string {
	return fmt.Sprintf("tick report gap detected: expected=%d received=%d", e.ExpectedTick, e.ReceivedTick)
}

func (e *ReportGapError) Unwrap() error {
	return ErrReportGap
}

// AgentCountError describes a report whose counts do not add up to the population.
type AgentCountError struct {
	Tick     uint64
	Expected int
	Actual   int
}

func (e *AgentCountError) Error() string {
	return fmt.Sprintf("agent count changed: tick=%d expected=%d actual=%d", e.Tick, e.Expected, e.Actual)
}

func (e *AgentCountError) Unwrap() error {
	return ErrAgentCount
}

// TrackerStats summarizes the observed report stream.
type TrackerStats struct {
	Reports         int
	LastTick        uint64
	MissedReports   uint64
	DuplicateCount  int
	CountErrors     int
	Migrations      int
	BoundaryChanges int
	Rejected        int
	PeakOverloaded  int
	PeakImbalance   float64
	LastImbalance   float64
}

// Tracker checks and aggregates tick reports.
//
// Reports are expected in tick order. A subscriber that falls behind misses
// reports; the tracker counts them instead of failing the run.
type Tracker struct {
	mu       sync.RWMutex
	expected int
	stats    TrackerStats
}

// NewTracker creates a tracker for a population of the given size.
//
// Parameters:
//   - agents: Total agent count every report must add up to (0 disables the check)
//
// Returns:
//   - *Tracker: Initialized tracker
func NewTracker(agents int) *Tracker {
	return &Tracker{expected: agents}
}

// Record records one tick report.
//
// The report is always aggregated; the returned error describes what was wrong
// with it.
//
// Returns:
//   - error: *ReportGapError, ErrReportDuplicate or *AgentCountError; nil if the report is sound
func (t *Tracker) Record(report boidgrid.TickReport) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if report.Tick <= t.stats.LastTick {
		t.stats.DuplicateCount++
		return fmt.Errorf("%w: tick=%d", ErrReportDuplicate, report.Tick)
	}

	var err error
	if expected := t.stats.LastTick + 1; report.Tick != expected {
		t.stats.MissedReports += report.Tick - expected
		err = &ReportGapError{ExpectedTick: expected, ReceivedTick: report.Tick}
	}

	t.stats.Reports++
	t.stats.LastTick = report.Tick
	t.stats.Migrations += report.Migrations
	t.stats.BoundaryChanges += report.BoundaryChanges
	t.stats.Rejected += report.Rejected
	t.stats.PeakOverloaded = max(t.stats.PeakOverloaded, report.Overloaded)
	t.stats.LastImbalance = metrics.Imbalance(report.Counts)
	t.stats.PeakImbalance = max(t.stats.PeakImbalance, t.stats.LastImbalance)

	if t.expected > 0 {
		total := 0
		for _, n := range report.Counts {
			total += n
		}
		if total != t.expected {
			t.stats.CountErrors++
			err = errors.Join(err, &AgentCountError{Tick: report.Tick, Expected: t.expected, Actual: total})
		}
	}

	return err
}

// GetStats returns current statistics.
func (t *Tracker) GetStats() TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.stats
}
