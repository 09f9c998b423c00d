// Package partition implements a single spatial partition: the rectangle it owns,
// the agents inside it, migration between neighbors and boundary resizing.
//
// A Partition is not safe for concurrent mutation. The coordinator only mutates
// partitions from its sequential balance and migrate phases; Snapshot copies are
// what concurrent readers see.
package partition

import (
	"fmt"
	"slices"

	"github.com/arloliu/boidgrid/internal/logging"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// Receiver accepts agents handed off by a neighboring partition.
type Receiver[T types.Scalar[T]] interface {
	Accept(agent types.Agent[T], fromID uint32) error
}

// Partition owns a rectangle of the simulation plane and the agents inside it.
type Partition[T types.Scalar[T]] struct {
	id        uint32
	pos       types.GridPos
	bounds    types.Rect[T]
	neighbors topology.Neighbors
	params    types.BalanceParams
	agents    []types.Agent[T]
	atMinimal bool
	logger    types.Logger
}

var _ Receiver[types.Float64] = (*Partition[types.Float64])(nil)

// Config holds the fixed identity and geometry of a partition.
type Config[T types.Scalar[T]] struct {
	ID        uint32
	Pos       types.GridPos
	Bounds    types.Rect[T]
	Neighbors topology.Neighbors
	Params    types.BalanceParams
	Logger    types.Logger
}

// New creates an empty partition.
//
// Parameters:
//   - cfg: Identity, initial bounds, neighbor table entry and balance parameters
//
// Returns:
//   - *Partition[T]: Partition with no agents
func New[T types.Scalar[T]](cfg Config[T]) *Partition[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Partition[T]{
		id:        cfg.ID,
		pos:       cfg.Pos,
		bounds:    cfg.Bounds,
		neighbors: cfg.Neighbors,
		params:    cfg.Params,
		logger:    logger,
	}
}

// ID returns the partition ID.
func (p *Partition[T]) ID() uint32 { return p.id }

// Pos returns the fixed grid position.
func (p *Partition[T]) Pos() types.GridPos { return p.pos }

// Bounds returns the current bounds.
func (p *Partition[T]) Bounds() types.Rect[T] { return p.bounds }

// Neighbors returns the neighbor table entry.
func (p *Partition[T]) Neighbors() topology.Neighbors { return p.neighbors }

// Count returns the number of agents owned.
func (p *Partition[T]) Count() int { return len(p.agents) }

// AtMinimalSize reports whether every valid edge was rejected by the minimum-size check
// since the last bounds change.
func (p *Partition[T]) AtMinimalSize() bool { return p.atMinimal }

// SetAtMinimalSize records the result of a balance plan.
func (p *Partition[T]) SetAtMinimalSize(v bool) { p.atMinimal = v }

// Snapshot returns an immutable copy of the owned agents in ownership order.
func (p *Partition[T]) Snapshot() []types.Agent[T] {
	return slices.Clone(p.agents)
}

// Replace swaps the agent set for next, as computed by the commit phase.
// The partition takes ownership of next.
func (p *Partition[T]) Replace(next []types.Agent[T]) {
	p.agents = next
}

// Agent returns the owned agent with the given ID.
func (p *Partition[T]) Agent(id uint64) (types.Agent[T], bool) {
	i := p.indexOf(id)
	if i < 0 {
		return types.Agent[T]{}, false
	}

	return p.agents[i], true
}

// ValidEdge reports whether this partition may move edge.
func (p *Partition[T]) ValidEdge(edge types.Edge) bool {
	return topology.ValidEdge(edge, p.pos, p.params.GridSize)
}

// MinSizeEnforced reports whether moving edge inward by steps keeps the current
// bounds at or above the minimum size.
func (p *Partition[T]) MinSizeEnforced(edge types.Edge, steps int) bool {
	return MinSizeEnforced(edge, steps, p.bounds, p.params.StepSize, p.params.MinSize)
}

// Accept adds an agent handed off by partition fromID.
//
// Returns:
//   - error: ErrDuplicateAgent if the agent is already owned here
func (p *Partition[T]) Accept(agent types.Agent[T], fromID uint32) error {
	if p.indexOf(agent.ID) >= 0 {
		return fmt.Errorf("partition %d accepting agent %d from %d: %w", p.id, agent.ID, fromID, types.ErrDuplicateAgent)
	}

	p.agents = append(p.agents, agent)
	p.logger.Debug("accepted agent", "partition", p.id, "agent", agent.ID, "from", fromID, "count", len(p.agents))

	return nil
}

// Transfer removes the agent from this partition and hands it to target.
//
// If target rejects the agent it is restored here, so the total agent count is
// unchanged whatever the outcome.
//
// Parameters:
//   - agentID: Agent to hand off
//   - target: Receiving partition (or an adapter around it)
//
// Returns:
//   - error: ErrAgentNotFound, or the receiver's error
func (p *Partition[T]) Transfer(agentID uint64, target Receiver[T]) error {
	i := p.indexOf(agentID)
	if i < 0 {
		return fmt.Errorf("partition %d transferring agent %d: %w", p.id, agentID, types.ErrAgentNotFound)
	}

	agent := p.agents[i]
	p.agents = slices.Delete(p.agents, i, i+1)

	if err := target.Accept(agent, p.id); err != nil {
		p.agents = slices.Insert(p.agents, i, agent)
		return err
	}

	p.logger.Debug("sent agent", "partition", p.id, "agent", agentID, "count", len(p.agents))

	return nil
}

// DetermineTransfer returns the neighbor an agent must migrate to, if any.
//
// Conditions are evaluated in fixed precedence: the diagonal cases NW, NE, SE, SW
// first, then N, E, S, W. All comparisons are strict, so an agent on a bound stays.
// A condition only fires when the corresponding neighbor exists (non-zero).
//
// Returns:
//   - uint32: Target partition ID
//   - types.Direction: Direction of the target
//   - bool: false when the agent stays
func (p *Partition[T]) DetermineTransfer(agent types.Agent[T]) (uint32, types.Direction, bool) {
	x, y := agent.Position.X, agent.Position.Y
	b := p.bounds

	north := y.Cmp(b.YMin) < 0
	south := y.Cmp(b.YMax) > 0
	west := x.Cmp(b.XMin) < 0
	east := x.Cmp(b.XMax) > 0

	checks := [8]struct {
		dir  types.Direction
		cond bool
	}{
		{types.NorthWest, north && west},
		{types.NorthEast, north && east},
		{types.SouthEast, south && east},
		{types.SouthWest, south && west},
		{types.North, north},
		{types.East, east},
		{types.South, south},
		{types.West, west},
	}

	for _, c := range checks {
		if c.cond && p.neighbors[c.dir] != 0 {
			return p.neighbors[c.dir], c.dir, true
		}
	}

	return 0, 0, false
}

func (p *Partition[T]) indexOf(id uint64) int {
	for i := range p.agents {
		if p.agents[i].ID == id {
			return i
		}
	}

	return -1
}
