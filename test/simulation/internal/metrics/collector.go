package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arloliu/boidgrid"
)

// Collector collects and exposes run-level simulation metrics.
//
// Per-tick library metrics (phase durations, migrations, balance attempts) come
// from the library's own collector; this one tracks what only the runner knows.
type Collector struct {
	// Run metrics
	runInfo      *prometheus.GaugeVec
	tick         prometheus.Gauge
	totalAgents  prometheus.Gauge
	maxAgents    prometheus.Gauge
	imbalance    prometheus.Gauge
	overloaded   prometheus.Gauge
	checkpoints  prometheus.Counter
	tickFailures prometheus.Counter

	// System metrics
	goroutinesActive prometheus.Gauge
	memoryUsageBytes prometheus.Gauge

	// Cached values for reporting
	mu                sync.Mutex
	cachedGoroutines  int
	cachedMemoryBytes uint64
}

// NewCollector creates a new metrics collector.
//
// Parameters:
//   - reg: Registerer for the collectors (prometheus.DefaultRegisterer if nil)
//
// Returns:
//   - *Collector: Initialized metrics collector
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		runInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "simulation_run_info",
				Help: "Constant 1 labelled with the run identity",
			},
			[]string{"run_id", "strategy", "scalar"},
		),
		tick: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_tick",
			Help: "Number of the last completed tick",
		}),
		totalAgents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_agents_total",
			Help: "Agents on the grid after the last tick",
		}),
		maxAgents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_partition_agents_max",
			Help: "Agent count of the most loaded partition after the last tick",
		}),
		imbalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_imbalance_ratio",
			Help: "Most loaded partition count divided by the mean partition count",
		}),
		overloaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_overloaded_partitions",
			Help: "Partitions above the threshold in the last tick",
		}),
		checkpoints: factory.NewCounter(prometheus.CounterOpts{
			Name: "simulation_checkpoints_total",
			Help: "Checkpoints written",
		}),
		tickFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "simulation_tick_failures_total",
			Help: "Ticks that returned an error",
		}),
		goroutinesActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_goroutines_active",
			Help: "Number of active goroutines",
		}),
		memoryUsageBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_memory_usage_bytes",
			Help: "Heap memory in use",
		}),
	}
}

// SetRunInfo publishes the run identity.
func (c *Collector) SetRunInfo(runID string, strategy string, scalar string) {
	c.runInfo.WithLabelValues(runID, strategy, scalar).Set(1)
}

// ObserveReport updates the run gauges from a tick report.
//
// Parameters:
//   - report: Report of a completed tick
func (c *Collector) ObserveReport(report boidgrid.TickReport) {
	total, peak := 0, 0
	for _, n := range report.Counts {
		total += n
		peak = max(peak, n)
	}

	c.tick.Set(float64(report.Tick))
	c.totalAgents.Set(float64(total))
	c.maxAgents.Set(float64(peak))
	c.overloaded.Set(float64(report.Overloaded))
	c.imbalance.Set(Imbalance(report.Counts))
}

// RecordCheckpoint counts a written checkpoint.
func (c *Collector) RecordCheckpoint() {
	c.checkpoints.Inc()
}

// RecordTickFailure counts a failed tick.
func (c *Collector) RecordTickFailure() {
	c.tickFailures.Inc()
}

// UpdateSystemMetrics updates system-level metrics.
//
// Parameters:
//   - goroutines: Number of active goroutines
//   - memoryBytes: Heap memory in use
func (c *Collector) UpdateSystemMetrics(goroutines int, memoryBytes uint64) {
	c.goroutinesActive.Set(float64(goroutines))
	c.memoryUsageBytes.Set(float64(memoryBytes))

	c.mu.Lock()
	c.cachedGoroutines = goroutines
	c.cachedMemoryBytes = memoryBytes
	c.mu.Unlock()
}

// GetSystemMetrics returns the last sampled system metrics.
//
// Returns:
//   - int: Active goroutines
//   - float64: Memory usage in MiB
func (c *Collector) GetSystemMetrics() (int, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cachedGoroutines, float64(c.cachedMemoryBytes) / (1024 * 1024)
}

// Imbalance returns the most loaded count divided by the mean count, or 0 for an
// empty grid. A perfectly balanced grid scores 1.
func Imbalance(counts []int) float64 {
	total, peak := 0, 0
	for _, n := range counts {
		total += n
		peak = max(peak, n)
	}
	if total == 0 {
		return 0
	}

	return float64(peak) * float64(len(counts)) / float64(total)
}
