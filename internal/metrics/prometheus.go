package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/boidgrid/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// PrometheusCollector that is never used leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Tick metrics
	phaseDuration  *prometheus.HistogramVec
	ticks          prometheus.Counter
	overloaded     prometheus.Gauge
	droppedReports prometheus.Counter

	// Balance metrics
	balanceAttempts *prometheus.CounterVec
	edgeSteps       *prometheus.CounterVec

	// Migration metrics
	migrations      *prometheus.CounterVec
	partitionAgents *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "boidgrid" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "boidgrid"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "tick",
			Name:      "phase_duration_seconds",
			Help:      "Duration in seconds of each tick phase.",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"phase"})

		p.ticks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "tick",
			Name:      "ticks_total",
			Help:      "Total completed ticks.",
		})

		p.overloaded = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "tick",
			Name:      "overloaded_partitions",
			Help:      "Partitions above the load threshold after the last compute phase.",
		})

		p.droppedReports = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "tick",
			Name:      "dropped_reports_total",
			Help:      "Tick reports not delivered to a slow subscriber.",
		})

		p.balanceAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balance",
			Name:      "attempts_total",
			Help:      "Load-balancing requests by strategy and outcome.",
		}, []string{"strategy", "outcome"})

		p.edgeSteps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balance",
			Name:      "edge_steps_total",
			Help:      "Edge steps requested by overloaded partitions.",
		}, []string{"edge"})

		p.migrations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "migration",
			Name:      "transfers_total",
			Help:      "Agent transfers between partitions by direction.",
		}, []string{"direction"})

		p.partitionAgents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "migration",
			Name:      "partition_agents",
			Help:      "Current agent count per partition.",
		}, []string{"partition"})

		p.reg.MustRegister(p.phaseDuration)
		p.reg.MustRegister(p.ticks)
		p.reg.MustRegister(p.overloaded)
		p.reg.MustRegister(p.droppedReports)
		p.reg.MustRegister(p.balanceAttempts)
		p.reg.MustRegister(p.edgeSteps)
		p.reg.MustRegister(p.migrations)
		p.reg.MustRegister(p.partitionAgents)
	})
}

// TickMetrics implementation

// RecordPhaseDuration observes the duration of one tick phase.
func (p *PrometheusCollector) RecordPhaseDuration(phase string, seconds float64) {
	p.ensureRegistered()
	p.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// RecordTick counts a completed tick and sets the overloaded partition gauge.
func (p *PrometheusCollector) RecordTick(overloaded int) {
	p.ensureRegistered()
	p.ticks.Inc()
	p.overloaded.Set(float64(overloaded))
}

// RecordDroppedReport counts a report a subscriber did not receive.
func (p *PrometheusCollector) RecordDroppedReport() {
	p.ensureRegistered()
	p.droppedReports.Inc()
}

// BalanceMetrics implementation

// RecordBalanceAttempt counts a load-balancing request outcome.
func (p *PrometheusCollector) RecordBalanceAttempt(strategy string, outcome string) {
	p.ensureRegistered()
	p.balanceAttempts.WithLabelValues(strategy, outcome).Inc()
}

// RecordEdgeSteps adds the steps requested on one edge.
func (p *PrometheusCollector) RecordEdgeSteps(edge types.Edge, steps int) {
	if steps <= 0 {
		return
	}
	p.ensureRegistered()
	p.edgeSteps.WithLabelValues(edge.String()).Add(float64(steps))
}

// MigrationMetrics implementation

// RecordMigration counts one agent transfer.
func (p *PrometheusCollector) RecordMigration(direction types.Direction) {
	p.ensureRegistered()
	p.migrations.WithLabelValues(direction.String()).Inc()
}

// RecordPartitionCount sets the agent count gauge of one partition.
func (p *PrometheusCollector) RecordPartitionCount(partitionID uint32, count int) {
	p.ensureRegistered()
	p.partitionAgents.WithLabelValues(strconv.FormatUint(uint64(partitionID), 10)).Set(float64(count))
}
