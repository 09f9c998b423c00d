package boidgrid

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/boidgrid/internal/hooks"
	"github.com/arloliu/boidgrid/internal/logging"
	"github.com/arloliu/boidgrid/internal/metrics"
	"github.com/arloliu/boidgrid/partition"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// Tick phase names reported to MetricsCollector.RecordPhaseDuration.
const (
	PhaseSnapshot = "snapshot"
	PhaseCompute  = "compute"
	PhaseCommit   = "commit"
	PhaseBalance  = "balance"
	PhaseMigrate  = "migrate"
)

// Coordinator drives the simulation grid one tick at a time.
//
// Every tick runs the same strictly ordered pipeline: snapshot, compute, commit,
// load balance, migrate. Compute runs partitions in parallel against immutable
// snapshots; every later phase is sequential in ascending partition ID.
//
// Tick calls are serialized. Observer accessors (Bounds, Agents, Counts, ...) return
// copies and are safe to call from any goroutine, including from hooks.
type Coordinator[T types.Scalar[T]] struct {
	cfg      Config
	params   BalanceParams
	resolver *topology.Resolver
	parts    []*partition.Partition[T]
	source   AgentSource
	strategy BoundaryStrategy[T]
	behavior Behavior[T]
	width    T
	height   T

	logger  Logger
	metrics MetricsCollector
	hooks   Hooks
	workers int

	// mu guards the fields below and all partition state
	mu      sync.RWMutex
	started bool
	total   int
	failed  error

	ticks atomic.Uint64

	// Fan-out to subscribers
	subscribers      *xsync.Map[uint64, *reportSubscriber]
	nextSubscriberID atomic.Uint64
}

// PartitionState is a point-in-time view of one partition.
type PartitionState[T types.Scalar[T]] struct {
	ID            uint32
	Pos           GridPos
	Bounds        Rect[T]
	Count         int
	AtMinimalSize bool
}

// NewCoordinator creates a coordinator for the grid described by cfg.
//
// Missing configuration values are filled with SetDefaults before validation.
// The grid starts empty; call Start to load agents from src.
//
// Parameters:
//   - cfg: Configuration (copied; nil is invalid)
//   - src: Agent source for the initial population
//   - strat: Boundary strategy used for load balancing
//   - behavior: Movement rule applied to every agent each tick
//   - opts: Optional configuration (WithLogger, WithMetrics, WithHooks, WithWorkers)
//
// Returns:
//   - *Coordinator[T]: Initialized coordinator
//   - error: ErrInvalidConfig, ErrSourceRequired, ErrStrategyRequired or ErrBehaviorRequired
//
// Example:
//
//	cfg := boidgrid.DefaultConfig()
//	strat, _ := boidgrid.NewStrategy[boidgrid.Float64](&cfg, nil)
//	flock, _ := behavior.NewFlock[boidgrid.Float64](cfg.FlockParams())
//	c, err := boidgrid.NewCoordinator(&cfg, source.NewUniform(90, 1), strat, flock)
//	if err != nil {
//	    return err
//	}
//	if err := c.Start(ctx); err != nil {
//	    return err
//	}
//	report, err := c.Tick(ctx)
func NewCoordinator[T types.Scalar[T]](
	cfg *Config,
	src AgentSource,
	strat BoundaryStrategy[T],
	behavior Behavior[T],
	opts ...Option,
) (*Coordinator[T], error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if src == nil {
		return nil, ErrSourceRequired
	}
	if strat == nil {
		return nil, ErrStrategyRequired
	}
	if behavior == nil {
		return nil, ErrBehaviorRequired
	}

	options := &coordinatorOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logging.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	c := *cfg
	SetDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ValidateWithWarnings(options.logger)

	resolver, err := topology.NewResolver(c.GridSize, topology.WithWrap(c.Wrap()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	workers := c.Workers
	if options.workers > 0 {
		workers = options.workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var zero T
	co := &Coordinator[T]{
		cfg:         c,
		params:      c.BalanceParams(),
		resolver:    resolver,
		source:      src,
		strategy:    strat,
		behavior:    behavior,
		width:       zero.FromInt(c.Width),
		height:      zero.FromInt(c.Height),
		logger:      options.logger,
		metrics:     options.metrics,
		hooks:       hooks.Fill(options.hooks),
		workers:     workers,
		subscribers: xsync.NewMap[uint64, *reportSubscriber](),
	}

	layout := c.Layout()
	co.parts = make([]*partition.Partition[T], resolver.Count())
	for i := range co.parts {
		id := uint32(i + 1) //nolint:gosec // G115: bounded by MaxGridSize squared
		b := layout.PartitionBounds(id)
		co.parts[i] = partition.New(partition.Config[T]{
			ID:        id,
			Pos:       resolver.Position(id),
			Bounds:    types.RectFromInts[T](b[0], b[1], b[2], b[3]),
			Neighbors: resolver.Neighbors(id),
			Params:    co.params,
			Logger:    options.logger,
		})
	}

	co.logger.Info("coordinator created",
		"partitions", len(co.parts),
		"partition_size", c.PartitionSize(),
		"strategy", strat.Name(),
		"topology", c.Topology,
		"workers", workers,
	)

	return co, nil
}

// Start loads the initial agents from the source and places each one in the
// partition whose initial bounds contain it.
//
// Parameters:
//   - ctx: Context passed to the agent source
//
// Returns:
//   - error: ErrAlreadyStarted, ErrInvalidAgent, or the source's error
func (c *Coordinator[T]) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}

	specs, err := c.source.Agents(ctx, c.cfg.Layout())
	if err != nil {
		return fmt.Errorf("loading agents: %w", err)
	}

	agents := make([]types.Agent[T], 0, len(specs))
	seen := make(map[uint64]struct{}, len(specs))
	for _, s := range specs {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate agent ID %d", ErrInvalidAgent, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.X < 0 || s.X >= float64(c.cfg.Width) || s.Y < 0 || s.Y >= float64(c.cfg.Height) {
			return fmt.Errorf("%w: agent %d at (%v, %v) outside the %dx%d plane",
				ErrInvalidAgent, s.ID, s.X, s.Y, c.cfg.Width, c.cfg.Height)
		}

		agents = append(agents, types.AgentFromSpec[T](s))
	}

	size := c.cfg.PartitionSize()
	last := c.cfg.GridSize - 1
	for _, a := range agents {
		x, y := a.Position.Floats()
		pos := GridPos{Row: min(int(y)/size, last), Col: min(int(x)/size, last)}
		if err := c.parts[topology.ID(pos, c.cfg.GridSize)-1].Accept(a, 0); err != nil {
			return err
		}
	}

	c.started = true
	c.total = len(agents)
	for _, p := range c.parts {
		c.metrics.RecordPartitionCount(p.ID(), p.Count())
	}

	c.logger.Info("coordinator started", "agents", c.total, "counts", c.countsLocked())

	return nil
}

// Tick advances the simulation by one step.
//
// The phases run strictly in order:
//  1. Snapshot: every partition publishes an immutable copy of its agents
//  2. Compute: every agent's next state is computed in parallel from its own
//     partition's snapshot and those of its distinct neighbors
//  3. Commit: computed buffers replace the agent sets
//  4. Balance: partitions at or above Threshold run the boundary strategy, in
//     ascending ID; approved changes are applied to every affected partition
//  5. Migrate: agents outside their partition's (possibly new) bounds are handed to
//     the neighbor that now owns their position, in ascending partition ID
//
// If ctx is cancelled during compute the tick is abandoned before anything is
// committed. An error after commit (an invariant violation or a strategy failure)
// leaves the coordinator failed: every later Tick returns ErrCoordinatorFailed.
//
// Hooks and subscribers are notified after the tick completes.
//
// Parameters:
//   - ctx: Context for cancellation of the compute phase and for hooks
//
// Returns:
//   - TickReport: Summary of the completed tick
//   - error: ErrNotStarted, ErrCoordinatorFailed, ctx error, or a wrapped ErrInvariantViolation
func (c *Coordinator[T]) Tick(ctx context.Context) (TickReport, error) {
	report, changes, err := c.tick(ctx)
	if err != nil {
		if hookErr := c.hooks.OnError(ctx, err); hookErr != nil {
			c.logger.Warn("OnError hook failed", "error", hookErr)
		}

		return report, err
	}

	for _, change := range changes {
		if hookErr := c.hooks.OnBoundsChanged(ctx, change); hookErr != nil {
			c.logger.Warn("OnBoundsChanged hook failed", "error", hookErr, "partition", change.OverloadedID)
		}
	}
	if hookErr := c.hooks.OnTick(ctx, report); hookErr != nil {
		c.logger.Warn("OnTick hook failed", "error", hookErr, "tick", report.Tick)
	}

	c.publish(report)

	return report, nil
}

func (c *Coordinator[T]) tick(ctx context.Context) (TickReport, []BoundsChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return TickReport{}, nil, fmt.Errorf("%w: %w", ErrCoordinatorFailed, c.failed)
	}
	if !c.started {
		return TickReport{}, nil, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return TickReport{}, nil, err
	}

	start := time.Now()
	n := c.ticks.Load() + 1

	phase := time.Now()
	snaps := c.snapshot()
	c.metrics.RecordPhaseDuration(PhaseSnapshot, time.Since(phase).Seconds())

	phase = time.Now()
	next, err := c.compute(ctx, snaps)
	if err != nil {
		return TickReport{}, nil, fmt.Errorf("tick %d compute: %w", n, err)
	}
	c.metrics.RecordPhaseDuration(PhaseCompute, time.Since(phase).Seconds())

	phase = time.Now()
	overloaded := 0
	for i, p := range c.parts {
		p.Replace(next[i])
		if p.Count() > c.params.Threshold {
			overloaded++
		}
	}
	c.metrics.RecordPhaseDuration(PhaseCommit, time.Since(phase).Seconds())

	phase = time.Now()
	changes, rejected, err := c.balance()
	if err != nil {
		return TickReport{}, nil, c.fail(fmt.Errorf("tick %d balance: %w", n, err))
	}
	c.metrics.RecordPhaseDuration(PhaseBalance, time.Since(phase).Seconds())

	phase = time.Now()
	migrations, err := c.migrate()
	if err != nil {
		return TickReport{}, nil, c.fail(fmt.Errorf("tick %d migrate: %w", n, err))
	}
	c.metrics.RecordPhaseDuration(PhaseMigrate, time.Since(phase).Seconds())

	if !c.cfg.SkipInvariantChecks {
		if err := c.checkInvariants(); err != nil {
			return TickReport{}, nil, c.fail(fmt.Errorf("tick %d: %w", n, err))
		}
	}

	c.ticks.Store(n)

	report := TickReport{
		Tick:            n,
		Counts:          c.countsLocked(),
		Overloaded:      overloaded,
		Migrations:      migrations,
		BoundaryChanges: len(changes),
		Rejected:        rejected,
		Duration:        time.Since(start),
	}

	c.metrics.RecordTick(overloaded)
	for i, count := range report.Counts {
		c.metrics.RecordPartitionCount(uint32(i+1), count) //nolint:gosec // G115: bounded by MaxGridSize squared
	}

	c.logger.Debug("tick completed",
		"tick", n,
		"counts", report.Counts,
		"overloaded", overloaded,
		"migrations", migrations,
		"boundary_changes", len(changes),
		"rejected", rejected,
		"duration", report.Duration,
	)

	return report, changes, nil
}

func (c *Coordinator[T]) fail(err error) error {
	c.failed = err
	c.logger.Error("coordinator failed", "error", err)

	return err
}

// Run calls Tick repeatedly.
//
// Parameters:
//   - ctx: Context; cancellation stops the loop
//   - ticks: Number of ticks to run (0 = until ctx is cancelled)
//   - interval: Minimum time between ticks (0 = back to back)
//
// Returns:
//   - error: nil after the requested ticks, ctx.Err() on cancellation, or the first Tick error
func (c *Coordinator[T]) Run(ctx context.Context, ticks uint64, interval time.Duration) error {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	for done := uint64(0); ticks == 0 || done < ticks; done++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := c.Tick(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Config returns the effective configuration, with defaults applied.
func (c *Coordinator[T]) Config() Config {
	return c.cfg
}

// Strategy returns the boundary strategy.
func (c *Coordinator[T]) Strategy() BoundaryStrategy[T] {
	return c.strategy
}

// TickCount returns the number of completed ticks.
func (c *Coordinator[T]) TickCount() uint64 {
	return c.ticks.Load()
}

// TotalAgents returns the number of agents loaded by Start.
func (c *Coordinator[T]) TotalAgents() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.total
}

// Counts returns the agent count per partition, indexed by partition ID - 1.
func (c *Coordinator[T]) Counts() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.countsLocked()
}

func (c *Coordinator[T]) countsLocked() []int {
	counts := make([]int, len(c.parts))
	for i, p := range c.parts {
		counts[i] = p.Count()
	}

	return counts
}

// Bounds returns the bounds of every partition, indexed by partition ID - 1.
func (c *Coordinator[T]) Bounds() []Rect[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Rect[T], len(c.parts))
	for i, p := range c.parts {
		out[i] = p.Bounds()
	}

	return out
}

// Partitions returns a view of every partition, in ascending ID.
func (c *Coordinator[T]) Partitions() []PartitionState[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]PartitionState[T], len(c.parts))
	for i, p := range c.parts {
		out[i] = PartitionState[T]{
			ID:            p.ID(),
			Pos:           p.Pos(),
			Bounds:        p.Bounds(),
			Count:         p.Count(),
			AtMinimalSize: p.AtMinimalSize(),
		}
	}

	return out
}

// Agents returns a copy of every agent, sorted by ID.
func (c *Coordinator[T]) Agents() []Agent[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Agent[T], 0, c.total)
	for _, p := range c.parts {
		out = append(out, p.Snapshot()...)
	}
	slices.SortFunc(out, func(a, b Agent[T]) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return out
}

// PartitionAgents returns a copy of the agents owned by partition id, in ownership order.
//
// Returns:
//   - []Agent[T]: Owned agents
//   - error: types.ErrInvalidPartitionID for an unknown ID
func (c *Coordinator[T]) PartitionAgents(id uint32) ([]Agent[T], error) {
	if id < 1 || int(id) > len(c.parts) {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidPartitionID, id)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.parts[id-1].Snapshot(), nil
}

// Err returns the error that failed the coordinator, or nil.
func (c *Coordinator[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.failed
}

// IsFailed reports whether an error after commit has stopped the coordinator.
func (c *Coordinator[T]) IsFailed() bool {
	return c.Err() != nil
}
