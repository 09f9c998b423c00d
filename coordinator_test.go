package boidgrid

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/boidgrid/behavior"
	"github.com/arloliu/boidgrid/source"
	"github.com/arloliu/boidgrid/strategy"
	gridtest "github.com/arloliu/boidgrid/testing"
)

// planFunc adapts a function to BoundaryStrategy.
type planFunc func(req PlanRequest[Float64]) (Plan, error)

func (f planFunc) Name() string { return "stub" }

func (f planFunc) Plan(req PlanRequest[Float64]) (Plan, error) { return f(req) }

func newTestCoordinator(t *testing.T, cfg Config, agents []AgentSpec, b Behavior[Float64], opts ...Option) *Coordinator[Float64] {
	t.Helper()

	strat, err := NewStrategy[Float64](&cfg, nil)
	require.NoError(t, err)

	opts = append([]Option{WithLogger(gridtest.NewTestLogger(t))}, opts...)
	c, err := NewCoordinator[Float64](&cfg, source.NewStatic(agents), strat, b, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	return c
}

func agentAt(id uint64, x, y, vx, vy float64) AgentSpec {
	return AgentSpec{ID: id, X: x, Y: y, VX: vx, VY: vy}
}

func TestNewCoordinator(t *testing.T) {
	cfg := DefaultConfig()
	src := source.NewStatic(nil)
	strat := strategy.NewNaive[Float64]()
	still := gridtest.Still[Float64]()

	t.Run("rejects missing collaborators", func(t *testing.T) {
		_, err := NewCoordinator[Float64](nil, src, strat, still)
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = NewCoordinator[Float64](&cfg, nil, strat, still)
		require.ErrorIs(t, err, ErrSourceRequired)

		_, err = NewCoordinator[Float64](&cfg, src, nil, still)
		require.ErrorIs(t, err, ErrStrategyRequired)

		_, err = NewCoordinator[Float64](&cfg, src, strat, nil)
		require.ErrorIs(t, err, ErrBehaviorRequired)
	})

	t.Run("rejects an invalid config", func(t *testing.T) {
		bad := DefaultConfig()
		bad.GridSize = 7

		_, err := NewCoordinator[Float64](&bad, src, strat, still)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("lays out the initial grid", func(t *testing.T) {
		c, err := NewCoordinator[Float64](&cfg, src, strat, still)
		require.NoError(t, err)

		parts := c.Partitions()
		require.Len(t, parts, 9)
		require.Equal(t, uint32(5), parts[4].ID)
		require.Equal(t, GridPos{Row: 1, Col: 1}, parts[4].Pos)
		require.Equal(t, RectFromInts[Float64](240, 240, 480, 480), parts[4].Bounds)
		require.Equal(t, RectFromInts[Float64](480, 480, 720, 720), parts[8].Bounds)
		require.Equal(t, "naive", c.Strategy().Name())
		require.Equal(t, uint64(0), c.TickCount())
	})

	t.Run("applies defaults to a sparse config", func(t *testing.T) {
		c, err := NewCoordinator[Float64](&Config{GridSize: 2}, src, strat, still)
		require.NoError(t, err)

		require.Equal(t, 720, c.Config().Height)
		require.Len(t, c.Partitions(), 4)
	})
}

func TestCoordinator_Start(t *testing.T) {
	cfg := DefaultConfig()
	strat := strategy.NewNaive[Float64]()
	still := gridtest.Still[Float64]()

	t.Run("places agents by position", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, []AgentSpec{
			agentAt(1, 10, 10, 0, 0),
			agentAt(2, 300, 300, 0, 0),
			agentAt(3, 719, 719, 0, 0),
			agentAt(4, 480, 100, 0, 0),
		}, still)

		require.Equal(t, []int{1, 0, 1, 0, 1, 0, 0, 0, 1}, c.Counts())
		require.Equal(t, 4, c.TotalAgents())

		agents, err := c.PartitionAgents(3)
		require.NoError(t, err)
		require.Len(t, agents, 1)
		require.Equal(t, uint64(4), agents[0].ID)
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		c, err := NewCoordinator[Float64](&cfg, source.NewStatic([]AgentSpec{
			agentAt(1, 10, 10, 0, 0),
			agentAt(1, 20, 20, 0, 0),
		}), strat, still)
		require.NoError(t, err)

		require.ErrorIs(t, c.Start(context.Background()), ErrInvalidAgent)
	})

	t.Run("rejects agents outside the plane", func(t *testing.T) {
		c, err := NewCoordinator[Float64](&cfg, source.NewStatic([]AgentSpec{agentAt(1, 720, 10, 0, 0)}), strat, still)
		require.NoError(t, err)

		require.ErrorIs(t, c.Start(context.Background()), ErrInvalidAgent)
	})

	t.Run("starts once", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, nil, still)

		require.ErrorIs(t, c.Start(context.Background()), ErrAlreadyStarted)
	})

	t.Run("tick requires start", func(t *testing.T) {
		c, err := NewCoordinator[Float64](&cfg, source.NewStatic(nil), strat, still)
		require.NoError(t, err)

		_, err = c.Tick(context.Background())
		require.ErrorIs(t, err, ErrNotStarted)
	})

	t.Run("unknown partition ID", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, nil, still)

		_, err := c.PartitionAgents(10)
		require.Error(t, err)
	})
}

func TestCoordinator_Migration(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("agent leaving north moves only north", func(t *testing.T) {
		rec := gridtest.NewRecorder()
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 300, 250, 0, -20)},
			gridtest.Drift[Float64](), WithMetrics(rec))

		report, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Equal(t, 1, report.Migrations)
		require.Equal(t, []int{0, 1, 0, 0, 0, 0, 0, 0, 0}, report.Counts)
		require.Equal(t, 1, rec.Migrations(North))
		require.Equal(t, 1, rec.PartitionCount(2))
	})

	t.Run("agent beyond two bounds moves diagonally", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 250, 250, -20, -20)}, gridtest.Drift[Float64]())

		_, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0}, c.Counts())
	})

	t.Run("agent leaving the plane wraps around", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 10, 10, -20, 0)}, gridtest.Drift[Float64]())

		_, err := c.Tick(context.Background())
		require.NoError(t, err)

		agents, err := c.PartitionAgents(3)
		require.NoError(t, err)
		require.Len(t, agents, 1)
		require.Equal(t, V[Float64](710, 10), agents[0].Position)
	})

	t.Run("agent on a bound stays", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 470, 300, 10, 0)}, gridtest.Drift[Float64]())

		report, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Zero(t, report.Migrations)
		require.Equal(t, 1, c.Counts()[4])
	})
}

func TestCoordinator_Balance(t *testing.T) {
	t.Run("naive balancing shrinks every edge of the center partition by one step", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Balance.Strategy = strategy.NameNaive

		rec := gridtest.NewRecorder()
		var changes []BoundsChange
		hooks := &Hooks{
			OnBoundsChanged: func(_ context.Context, change BoundsChange) error {
				changes = append(changes, change)
				return nil
			},
		}

		c := newTestCoordinator(t, cfg, gridtest.Block(1, 35, 240, 240, 480, 480),
			gridtest.Still[Float64](), WithMetrics(rec), WithHooks(hooks))

		report, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Equal(t, 1, report.Overloaded)
		require.Equal(t, 1, report.BoundaryChanges)
		require.Zero(t, report.Migrations)

		bounds := c.Bounds()
		require.Equal(t, RectFromInts[Float64](0, 0, 260, 260), bounds[0])
		require.Equal(t, RectFromInts[Float64](260, 0, 460, 260), bounds[1])
		require.Equal(t, RectFromInts[Float64](460, 0, 720, 260), bounds[2])
		require.Equal(t, RectFromInts[Float64](0, 260, 260, 460), bounds[3])
		require.Equal(t, RectFromInts[Float64](260, 260, 460, 460), bounds[4])
		require.Equal(t, RectFromInts[Float64](460, 260, 720, 460), bounds[5])
		require.Equal(t, RectFromInts[Float64](0, 460, 260, 720), bounds[6])
		require.Equal(t, RectFromInts[Float64](260, 460, 460, 720), bounds[7])
		require.Equal(t, RectFromInts[Float64](460, 460, 720, 720), bounds[8])

		require.Len(t, changes, 1)
		require.Equal(t, uint32(5), changes[0].OverloadedID)
		require.Equal(t, EdgeSteps{1, 1, 1, 1}, changes[0].Steps)
		require.Equal(t, []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9}, changes[0].Affected)

		require.Equal(t, 1, rec.Attempts(OutcomeApplied))
		for _, edge := range []Edge{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft} {
			require.Equal(t, 1, rec.EdgeSteps(edge))
		}

		require.NoError(t, c.CheckInvariants())
	})

	t.Run("repeated balancing stops at the minimum size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Balance.Strategy = strategy.NameNaive

		c := newTestCoordinator(t, cfg, gridtest.Block(1, 35, 355, 355, 365, 365), gridtest.Still[Float64]())

		for range 8 {
			_, err := c.Tick(context.Background())
			require.NoError(t, err)
		}

		center := c.Partitions()[4]
		require.Equal(t, RectFromInts[Float64](320, 320, 400, 400), center.Bounds)
		require.True(t, center.AtMinimalSize)
		require.Equal(t, 35, center.Count)
	})

	t.Run("negotiation rejects a change that overloads a neighbor", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Balance.Strategy = strategy.NameNegotiated

		rec := gridtest.NewRecorder()
		c := newTestCoordinator(t, cfg, gridtest.Block(1, 35, 250, 260, 250, 460),
			gridtest.Still[Float64](), WithMetrics(rec))

		report, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Equal(t, 1, report.Rejected)
		require.Zero(t, report.BoundaryChanges)
		require.Equal(t, RectFromInts[Float64](240, 240, 480, 480), c.Bounds()[4])
		require.Equal(t, 1, rec.Attempts(OutcomeRejected))
	})

	t.Run("log-only negotiation applies the change", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Balance.Strategy = strategy.NameNegotiated
		cfg.Balance.NegotiationPolicy = string(strategy.PolicyLogOnly)

		c := newTestCoordinator(t, cfg, gridtest.Block(1, 35, 250, 260, 250, 460), gridtest.Still[Float64]())

		report, err := c.Tick(context.Background())
		require.NoError(t, err)

		require.Zero(t, report.Rejected)
		require.Equal(t, 1, report.BoundaryChanges)
		require.Equal(t, 35, report.Migrations)
		require.Equal(t, 35, c.Counts()[3])
	})
}

func TestCoordinator_Invariants(t *testing.T) {
	t.Run("conserves agents while flocking and balancing", func(t *testing.T) {
		for _, name := range []string{strategy.NameNaive, strategy.NameDistributionDriven, strategy.NameNegotiated} {
			t.Run(name, func(t *testing.T) {
				cfg := TestConfig()
				cfg.Balance.Strategy = name

				strat, err := NewStrategy[Float64](&cfg, nil)
				require.NoError(t, err)
				flock, err := behavior.NewFlock[Float64](cfg.FlockParams())
				require.NoError(t, err)

				c, err := NewCoordinator[Float64](&cfg, source.NewNoise(60, 3), strat, flock)
				require.NoError(t, err)
				require.NoError(t, c.Start(context.Background()))

				require.NoError(t, c.Run(context.Background(), 40, 0))
				require.Equal(t, uint64(40), c.TickCount())

				total := 0
				for _, n := range c.Counts() {
					total += n
				}
				require.Equal(t, 60, total)
				require.Len(t, c.Agents(), 60)
				require.NoError(t, c.CheckInvariants())
			})
		}
	})

	t.Run("planned shrink below the minimum size fails the coordinator", func(t *testing.T) {
		cfg := DefaultConfig()
		var hookErr error
		hooks := &Hooks{
			OnError: func(_ context.Context, err error) error {
				hookErr = err
				return nil
			},
		}

		strat := planFunc(func(PlanRequest[Float64]) (Plan, error) {
			return Plan{Steps: EdgeSteps{0, 0, 0, 9}}, nil
		})
		c, err := NewCoordinator[Float64](&cfg, source.NewStatic(gridtest.Block(1, 30, 300, 300, 400, 400)),
			strat, gridtest.Still[Float64](), WithHooks(hooks))
		require.NoError(t, err)
		require.NoError(t, c.Start(context.Background()))

		_, err = c.Tick(context.Background())
		require.ErrorIs(t, err, ErrInvariantViolation)
		require.ErrorIs(t, hookErr, ErrInvariantViolation)
		require.True(t, c.IsFailed())

		_, err = c.Tick(context.Background())
		require.ErrorIs(t, err, ErrCoordinatorFailed)
		require.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("strategy error fails the coordinator", func(t *testing.T) {
		cfg := DefaultConfig()
		boom := errors.New("boom")
		strat := planFunc(func(PlanRequest[Float64]) (Plan, error) {
			return Plan{}, boom
		})

		c, err := NewCoordinator[Float64](&cfg, source.NewStatic(gridtest.Block(1, 30, 300, 300, 400, 400)),
			strat, gridtest.Still[Float64]())
		require.NoError(t, err)
		require.NoError(t, c.Start(context.Background()))

		_, err = c.Tick(context.Background())
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, c.Err(), boom)
	})

	t.Run("cancelled tick commits nothing", func(t *testing.T) {
		cfg := DefaultConfig()
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 300, 250, 0, -20)}, gridtest.Drift[Float64]())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Tick(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.False(t, c.IsFailed())
		require.Equal(t, uint64(0), c.TickCount())
		require.Equal(t, 1, c.Counts()[4])
	})
}

func TestCoordinator_Digest(t *testing.T) {
	run := func(t *testing.T, workers int) (uint64, []Agent[Float64]) {
		t.Helper()

		cfg := DefaultConfig()
		strat, err := NewStrategy[Float64](&cfg, nil)
		require.NoError(t, err)
		flock, err := behavior.NewFlock[Float64](cfg.FlockParams())
		require.NoError(t, err)

		c, err := NewCoordinator[Float64](&cfg, source.NewUniform(90, 7), strat, flock, WithWorkers(workers))
		require.NoError(t, err)
		require.NoError(t, c.Start(context.Background()))
		require.NoError(t, c.Run(context.Background(), 10, 0))

		return c.Digest(), c.Agents()
	}

	t.Run("same input gives the same digest regardless of workers", func(t *testing.T) {
		d1, a1 := run(t, 1)
		d4, a4 := run(t, 4)

		require.Equal(t, d1, d4)
		require.Equal(t, a1, a4)
	})

	t.Run("digest tracks state", func(t *testing.T) {
		cfg := DefaultConfig()
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 100, 100, 1, 0)}, gridtest.Still[Float64]())
		still := c.Digest()

		_, err := c.Tick(context.Background())
		require.NoError(t, err)
		require.Equal(t, still, c.Digest())

		moving := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 100, 100, 1, 0)}, gridtest.Drift[Float64]())
		_, err = moving.Tick(context.Background())
		require.NoError(t, err)
		require.NotEqual(t, still, moving.Digest())
	})

	t.Run("runs in fixed point", func(t *testing.T) {
		cfg := DefaultConfig()
		strat, err := NewStrategy[Fixed](&cfg, nil)
		require.NoError(t, err)
		flock, err := behavior.NewFlock[Fixed](cfg.FlockParams())
		require.NoError(t, err)

		digests := make([]uint64, 2)
		for i := range digests {
			c, err := NewCoordinator[Fixed](&cfg, source.NewUniform(90, 7), strat, flock)
			require.NoError(t, err)
			require.NoError(t, c.Start(context.Background()))
			require.NoError(t, c.Run(context.Background(), 10, 0))
			digests[i] = c.Digest()
		}

		require.Equal(t, digests[0], digests[1])
	})

	t.Run("known state on a single partition replays identically", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GridSize = 1

		digests := make([]uint64, 2)
		for i, workers := range []int{1, 4} {
			src, err := source.LoadFile("source/testdata/known_90.yaml")
			require.NoError(t, err)
			strat, err := NewStrategy[Float64](&cfg, nil)
			require.NoError(t, err)
			flock, err := behavior.NewFlock[Float64](cfg.FlockParams())
			require.NoError(t, err)

			c, err := NewCoordinator[Float64](&cfg, src, strat, flock, WithWorkers(workers))
			require.NoError(t, err)
			require.NoError(t, c.Start(context.Background()))
			start := c.Digest()

			require.NoError(t, c.Run(context.Background(), 20, 0))
			require.Equal(t, []int{90}, c.Counts())
			require.NotEqual(t, start, c.Digest())
			digests[i] = c.Digest()
		}

		require.Equal(t, digests[0], digests[1])
	})
}

func TestCoordinator_Subscribe(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("delivers a report per tick", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, []AgentSpec{agentAt(1, 100, 100, 0, 0)}, gridtest.Still[Float64]())

		ch, unsubscribe := c.Subscribe()
		defer unsubscribe()

		_, err := c.Tick(context.Background())
		require.NoError(t, err)

		select {
		case report := <-ch:
			require.Equal(t, uint64(1), report.Tick)
			require.Equal(t, 1, report.Counts[0])
		case <-time.After(time.Second):
			t.Fatal("no report")
		}
	})

	t.Run("drops reports for a slow subscriber", func(t *testing.T) {
		rec := gridtest.NewRecorder()
		c := newTestCoordinator(t, cfg, nil, gridtest.Still[Float64](), WithMetrics(rec))

		ch, unsubscribe := c.Subscribe()
		require.NoError(t, c.Run(context.Background(), 6, 0))
		require.Equal(t, 2, rec.Dropped())

		unsubscribe()
		unsubscribe()

		var ticks []uint64
		for report := range ch {
			ticks = append(ticks, report.Tick)
		}
		require.Equal(t, []uint64{1, 2, 3, 4}, ticks)
	})

	t.Run("hooks observe every tick", func(t *testing.T) {
		var mu sync.Mutex
		var ticks []uint64
		hooks := &Hooks{
			OnTick: func(_ context.Context, report TickReport) error {
				mu.Lock()
				defer mu.Unlock()
				ticks = append(ticks, report.Tick)

				return errors.New("ignored")
			},
		}

		c := newTestCoordinator(t, cfg, nil, gridtest.Still[Float64](), WithHooks(hooks))
		require.NoError(t, c.Run(context.Background(), 3, 0))

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []uint64{1, 2, 3}, ticks)
	})
}

func TestCoordinator_Run(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("stops on cancellation", func(t *testing.T) {
		c := newTestCoordinator(t, cfg, nil, gridtest.Still[Float64]())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := c.Run(ctx, 0, time.Millisecond)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Positive(t, c.TickCount())
		require.False(t, c.IsFailed())
	})

	t.Run("runs the requested ticks", func(t *testing.T) {
		rec := gridtest.NewRecorder()
		c := newTestCoordinator(t, cfg, nil, gridtest.Still[Float64](), WithMetrics(rec))

		require.NoError(t, c.Run(context.Background(), 3, 0))
		require.Equal(t, uint64(3), c.TickCount())
		require.Equal(t, 3, rec.Ticks())
		require.Equal(t, 3, rec.Phases(PhaseMigrate))
	})
}
