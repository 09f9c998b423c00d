// Package runner drives a boidgrid coordinator from a runner configuration.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/behavior"
	gridlog "github.com/arloliu/boidgrid/internal/logging"
	"github.com/arloliu/boidgrid/source"
	"github.com/arloliu/boidgrid/test/simulation/internal/config"
	"github.com/arloliu/boidgrid/test/simulation/internal/logging"
	"github.com/arloliu/boidgrid/test/simulation/internal/metrics"
	"github.com/arloliu/boidgrid/types"
)

// Runner builds a coordinator from a configuration and runs it to its stop point.
type Runner struct {
	cfg        *config.Config
	runID      string
	logger     types.Logger
	collector  *metrics.Collector
	libMetrics types.MetricsCollector

	checkpoints    *CheckpointWriter
	lastCheckpoint uint64
	saved          int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger. The coordinator logs through it too.
func WithLogger(logger types.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCollector sets the run-level metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.collector = c
	}
}

// WithLibraryMetrics sets the collector handed to the coordinator.
func WithLibraryMetrics(m types.MetricsCollector) Option {
	return func(r *Runner) {
		r.libMetrics = m
	}
}

// Summary describes a finished run.
type Summary struct {
	RunID       string
	Scalar      string
	Strategy    string
	Ticks       uint64
	Agents      int
	Counts      []int
	Digest      uint64
	Failed      bool
	Checkpoints int
	Stats       TrackerStats
	Duration    time.Duration
}

// New creates a runner.
//
// Parameters:
//   - cfg: Loaded runner configuration (defaults applied)
//   - runID: Identity recorded in logs, metrics and checkpoints
//   - opts: WithLogger, WithCollector, WithLibraryMetrics
//
// Returns:
//   - *Runner: Initialized runner
//   - error: Error if cfg is nil
func New(cfg *config.Config, runID string, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner config is nil")
	}

	r := &Runner{
		cfg:    cfg,
		runID:  runID,
		logger: gridlog.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if cfg.Checkpoint.Enabled {
		r.checkpoints = NewCheckpointWriter(cfg.Checkpoint.Path, runID, cfg.Checkpoint.Compress)
	}

	return r, nil
}

// Run runs the simulation until the configured tick count is reached or ctx is
// cancelled.
//
// A summary is returned whenever the coordinator started, including when the run
// stopped with an error.
//
// Returns:
//   - *Summary: Final state of the run
//   - error: Setup error, ctx error on cancellation, or the failing tick's error
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if r.cfg.Simulation.Scalar == config.ScalarFixed {
		return run[boidgrid.Fixed](ctx, r)
	}

	return run[boidgrid.Float64](ctx, r)
}

func run[T types.Scalar[T]](ctx context.Context, r *Runner) (*Summary, error) {
	cfg := r.cfg

	src, err := r.source()
	if err != nil {
		return nil, err
	}
	strat, err := boidgrid.NewStrategy[T](&cfg.Grid, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create strategy: %w", err)
	}
	flock, err := behavior.NewFlock[T](cfg.FlockParams())
	if err != nil {
		return nil, fmt.Errorf("failed to create flock: %w", err)
	}

	var grid *gridView[T]
	hooks := &boidgrid.Hooks{
		OnTick: func(_ context.Context, report boidgrid.TickReport) error {
			return r.maybeCheckpoint(grid, report.Tick)
		},
		OnBoundsChanged: func(_ context.Context, change boidgrid.BoundsChange) error {
			r.logger.Debug("boundary changed",
				"partition", change.OverloadedID, "strategy", change.Strategy, "affected", change.Affected)
			return nil
		},
		OnError: func(_ context.Context, err error) error {
			if r.collector != nil {
				r.collector.RecordTickFailure()
			}
			r.logger.Error("tick failed", "error", err)

			return nil
		},
	}

	opts := []boidgrid.Option{
		boidgrid.WithLogger(logging.Component(r.logger, "coordinator")),
		boidgrid.WithHooks(hooks),
	}
	if r.libMetrics != nil {
		opts = append(opts, boidgrid.WithMetrics(r.libMetrics))
	}

	c, err := boidgrid.NewCoordinator[T](&cfg.Grid, src, strat, flock, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}
	grid = &gridView[T]{Coordinator: c}

	start := time.Now()
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start coordinator: %w", err)
	}

	tracker := NewTracker(c.TotalAgents())
	if r.collector != nil {
		r.collector.SetRunInfo(r.runID, strat.Name(), cfg.Simulation.Scalar)
	}
	r.logger.Info("simulation started",
		"agents", c.TotalAgents(), "partitions", cfg.Grid.PartitionCount(),
		"strategy", strat.Name(), "scalar", cfg.Simulation.Scalar, "ticks", cfg.Simulation.Ticks)

	reports, unsubscribe := c.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.consume(reports, tracker)
		return nil
	})
	g.Go(func() error {
		defer unsubscribe()
		return c.Run(gctx, cfg.Simulation.Ticks, cfg.Simulation.Interval)
	})
	runErr := g.Wait()

	if runErr == nil || errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		if c.TickCount() > 0 && c.TickCount() != r.lastCheckpoint {
			if err := r.saveCheckpoint(grid); err != nil {
				r.logger.Warn("final checkpoint failed", "error", err)
			}
		}
	}

	summary := &Summary{
		RunID:       r.runID,
		Scalar:      cfg.Simulation.Scalar,
		Strategy:    strat.Name(),
		Ticks:       c.TickCount(),
		Agents:      c.TotalAgents(),
		Counts:      c.Counts(),
		Digest:      c.Digest(),
		Failed:      c.IsFailed(),
		Checkpoints: r.saved,
		Stats:       tracker.GetStats(),
		Duration:    time.Since(start),
	}
	r.logger.Info("simulation stopped", "ticks", summary.Ticks, "digest", fmt.Sprintf("%016x", summary.Digest))

	return summary, runErr
}

// consume feeds reports into the tracker and the run metrics until the
// subscription closes.
func (r *Runner) consume(reports <-chan boidgrid.TickReport, tracker *Tracker) {
	every := r.cfg.Simulation.ReportEvery

	for report := range reports {
		if err := tracker.Record(report); err != nil {
			if errors.Is(err, ErrAgentCount) {
				r.logger.Error("report check failed", "error", err)
			} else {
				r.logger.Debug("report check failed", "error", err)
			}
		}
		if r.collector != nil {
			r.collector.ObserveReport(report)
		}

		if every > 0 && report.Tick%every == 0 {
			stats := tracker.GetStats()
			r.logger.Info("progress",
				"tick", report.Tick,
				"overloaded", report.Overloaded,
				"imbalance", fmt.Sprintf("%.2f", stats.LastImbalance),
				"migrations", stats.Migrations,
				"boundaryChanges", stats.BoundaryChanges,
				"rejected", stats.Rejected)
		}
	}
}

func (r *Runner) source() (boidgrid.AgentSource, error) {
	agents := r.cfg.Agents

	switch agents.Source {
	case config.SourceNoise:
		return source.NewNoise(agents.Count, agents.Seed,
			source.WithFrequency(agents.Noise.Frequency),
			source.WithOctaves(agents.Noise.Octaves),
			source.WithSharpness(agents.Noise.Sharpness),
		), nil
	case config.SourceFile:
		src, err := source.LoadFile(agents.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load agents: %w", err)
		}

		return src, nil
	default:
		return source.NewUniform(agents.Count, agents.Seed), nil
	}
}

func (r *Runner) maybeCheckpoint(grid GridView, tick uint64) error {
	if r.checkpoints == nil || tick%r.cfg.Checkpoint.Every != 0 {
		return nil
	}

	return r.saveCheckpoint(grid)
}

func (r *Runner) saveCheckpoint(grid GridView) error {
	if r.checkpoints == nil {
		return nil
	}

	path, err := r.checkpoints.Save(grid)
	if err != nil {
		return err
	}

	r.lastCheckpoint = grid.TickCount()
	r.saved++
	if r.collector != nil {
		r.collector.RecordCheckpoint()
	}
	r.logger.Info("checkpoint saved", "tick", r.lastCheckpoint, "path", path)

	return nil
}

// gridView adapts a coordinator to GridView.
type gridView[T types.Scalar[T]] struct {
	*boidgrid.Coordinator[T]
}

func (g *gridView[T]) AgentSpecs() []boidgrid.AgentSpec {
	agents := g.Agents()
	specs := make([]boidgrid.AgentSpec, len(agents))
	for i, a := range agents {
		specs[i] = a.Spec()
	}

	return specs
}

func (g *gridView[T]) BoundsFloats() [][4]float64 {
	bounds := g.Bounds()
	out := make([][4]float64, len(bounds))
	for i, b := range bounds {
		out[i] = b.Floats()
	}

	return out
}

func (g *gridView[T]) StrategyName() string {
	return g.Strategy().Name()
}

// PrintReport prints a summary report.
//
// Parameters:
//   - w: Destination (os.Stdout when nil)
//   - runErr: Error the run stopped with, if any
func (s *Summary) PrintReport(w io.Writer, runErr error) {
	if w == nil {
		w = os.Stdout
	}
	stats := s.Stats

	fmt.Fprintf(w, "\n=== Simulation Report [%s] ===\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Run ID:               %s\n", s.RunID)
	fmt.Fprintf(w, "Scalar / Strategy:    %s / %s\n", s.Scalar, s.Strategy)
	fmt.Fprintf(w, "Ticks:                %d (%s)\n", s.Ticks, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Agents:               %d\n", s.Agents)
	fmt.Fprintf(w, "Final Counts:         %v\n", s.Counts)
	fmt.Fprintf(w, "Digest:               %016x\n", s.Digest)
	fmt.Fprintf(w, "Migrations:           %d\n", stats.Migrations)
	fmt.Fprintf(w, "Boundary Changes:     %d\n", stats.BoundaryChanges)
	fmt.Fprintf(w, "Rejected Changes:     %d\n", stats.Rejected)
	fmt.Fprintf(w, "Peak Overloaded:      %d\n", stats.PeakOverloaded)
	fmt.Fprintf(w, "Imbalance (peak/end): %.2f / %.2f\n", stats.PeakImbalance, stats.LastImbalance)
	fmt.Fprintf(w, "Missed Reports:       %d\n", stats.MissedReports)
	fmt.Fprintf(w, "Checkpoints:          %d\n", s.Checkpoints)

	switch {
	case s.Failed:
		fmt.Fprintf(w, "FAILURE: coordinator failed: %v\n", runErr)
	case stats.CountErrors > 0:
		fmt.Fprintf(w, "FAILURE: %d reports did not conserve the agent count\n", stats.CountErrors)
	case runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded):
		fmt.Fprintf(w, "FAILURE: %v\n", runErr)
	default:
		fmt.Fprintln(w, "SUCCESS: agent count conserved on every observed tick")
	}
}
