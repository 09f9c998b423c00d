package source

import (
	"context"
	"slices"
	"sync"

	"github.com/arloliu/boidgrid/types"
)

// Static implements an agent source with a fixed list of agents.
type Static struct {
	mu     sync.RWMutex
	agents []types.AgentSpec
}

var _ types.AgentSource = (*Static)(nil)

// NewStatic creates a new static agent source.
//
// The source returns a fixed list of agents regardless of the layout.
// Useful for testing and for replaying known states.
//
// Parameters:
//   - agents: Fixed list of agents
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.AgentSpec{
//	    {ID: 1, X: 100, Y: 100, VX: 1, VY: 0},
//	    {ID: 2, X: 300, Y: 250, VX: 0, VY: -1},
//	})
//	c, err := boidgrid.NewCoordinator(&cfg, src, strat, behavior)
func NewStatic(agents []types.AgentSpec) *Static {
	return &Static{
		agents: slices.Clone(agents),
	}
}

// Agents returns the static list of agents.
//
// Returns:
//   - []types.AgentSpec: Copy of the fixed list
//   - error: Always nil (never fails)
func (s *Static) Agents(_ context.Context, _ types.Layout) ([]types.AgentSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.agents), nil
}

// Update replaces the agent list returned by later Agents calls.
//
// Parameters:
//   - agents: New list of agents
func (s *Static) Update(agents []types.AgentSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents = slices.Clone(agents)
}
