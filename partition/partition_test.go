package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

type F = types.Float64

var testParams = types.BalanceParams{GridSize: 3, StepSize: 20, MinSize: 80, Threshold: 30, Quota: 5}

// newGrid builds the 3x3 toroidal grid of 240x240 partitions over a 720x720 plane.
func newGrid(t *testing.T) []*Partition[F] {
	t.Helper()

	r, err := topology.NewResolver(3)
	require.NoError(t, err)

	layout := types.Layout{Width: 720, Height: 720, GridSize: 3, PartitionSize: 240}
	parts := make([]*Partition[F], 9)
	for i := range parts {
		id := uint32(i + 1)
		b := layout.PartitionBounds(id)
		parts[i] = New(Config[F]{
			ID:        id,
			Pos:       r.Position(id),
			Bounds:    types.RectFromInts[F](b[0], b[1], b[2], b[3]),
			Neighbors: r.Neighbors(id),
			Params:    testParams,
		})
	}

	return parts
}

func agent(id uint64, x, y float64) types.Agent[F] {
	return types.Agent[F]{ID: id, Position: types.V[F](x, y)}
}

func TestDetermineTransfer(t *testing.T) {
	grid := newGrid(t)
	center := grid[4] // bounds 240..480

	tests := []struct {
		name    string
		x, y    float64
		wantID  uint32
		wantDir types.Direction
		moves   bool
	}{
		{"inside stays", 300, 300, 0, 0, false},
		{"on the bounds stays", 240, 480, 0, 0, false},
		{"beyond north only migrates north", 300, 239, 2, types.North, true},
		{"beyond north and west migrates north-west", 239, 239, 1, types.NorthWest, true},
		{"beyond north and east migrates north-east", 481, 239, 3, types.NorthEast, true},
		{"beyond south and east migrates south-east", 481, 481, 9, types.SouthEast, true},
		{"beyond south and west migrates south-west", 239, 481, 7, types.SouthWest, true},
		{"beyond east only migrates east", 481, 300, 6, types.East, true},
		{"beyond south only migrates south", 300, 481, 8, types.South, true},
		{"beyond west only migrates west", 239, 300, 4, types.West, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, dir, ok := center.DetermineTransfer(agent(1, tt.x, tt.y))
			require.Equal(t, tt.moves, ok)
			require.Equal(t, tt.wantID, id)
			if ok {
				require.Equal(t, tt.wantDir, dir)
			}
		})
	}

	t.Run("wraps around the plane edge", func(t *testing.T) {
		corner := grid[0] // bounds 0..240
		id, dir, ok := corner.DetermineTransfer(agent(1, -3, -2))
		require.True(t, ok)
		require.Equal(t, types.NorthWest, dir)
		require.Equal(t, uint32(9), id)
	})

	t.Run("skips missing neighbors on a bounded grid", func(t *testing.T) {
		r, err := topology.NewResolver(3, topology.WithWrap(false))
		require.NoError(t, err)

		p := New(Config[F]{
			ID:        1,
			Bounds:    types.RectFromInts[F](0, 0, 240, 240),
			Neighbors: r.Neighbors(1),
			Params:    testParams,
		})

		_, _, ok := p.DetermineTransfer(agent(1, -1, 100))
		require.False(t, ok)

		// NW is missing, so the single-axis rules decide
		id, dir, ok := p.DetermineTransfer(agent(1, 250, -1))
		require.True(t, ok)
		require.Equal(t, types.East, dir)
		require.Equal(t, uint32(2), id)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves the agent and conserves the total", func(t *testing.T) {
		grid := newGrid(t)
		src, dst := grid[4], grid[1]
		require.NoError(t, src.Accept(agent(1, 300, 230), 0))
		require.NoError(t, src.Accept(agent(2, 300, 300), 0))
		require.NoError(t, src.Accept(agent(3, 310, 310), 0))

		require.NoError(t, src.Transfer(1, dst))

		require.Equal(t, 2, src.Count())
		require.Equal(t, 1, dst.Count())
		_, ok := src.Agent(1)
		require.False(t, ok)
		got, ok := dst.Agent(1)
		require.True(t, ok)
		require.Equal(t, uint64(1), got.ID)

		ids := []uint64{}
		for _, a := range src.Snapshot() {
			ids = append(ids, a.ID)
		}
		require.Equal(t, []uint64{2, 3}, ids, "remaining agents keep their order")
	})

	t.Run("rejected hand-off restores the agent", func(t *testing.T) {
		grid := newGrid(t)
		src, dst := grid[4], grid[1]
		require.NoError(t, src.Accept(agent(1, 300, 230), 0))
		require.NoError(t, src.Accept(agent(2, 300, 300), 0))
		require.NoError(t, dst.Accept(agent(1, 300, 200), 0))

		err := src.Transfer(1, dst)
		require.ErrorIs(t, err, types.ErrDuplicateAgent)
		require.Equal(t, 2, src.Count())
		require.Equal(t, 1, dst.Count())
		require.Equal(t, uint64(1), src.Snapshot()[0].ID)
	})

	t.Run("unknown agent", func(t *testing.T) {
		grid := newGrid(t)
		require.ErrorIs(t, grid[0].Transfer(42, grid[1]), types.ErrAgentNotFound)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		grid := newGrid(t)
		require.NoError(t, grid[0].Accept(agent(1, 10, 10), 0))

		snap := grid[0].Snapshot()
		snap[0].Position = types.V[F](99, 99)

		got, _ := grid[0].Agent(1)
		require.Equal(t, F(10), got.Position.X)
	})
}

func TestMinSizeEnforced(t *testing.T) {
	bounds := types.RectFromInts[F](240, 240, 480, 340) // 240 wide, 100 high

	require.True(t, MinSizeEnforced(types.EdgeTop, 1, bounds, 20, 80))
	require.False(t, MinSizeEnforced(types.EdgeBottom, 2, bounds, 20, 80))
	require.True(t, MinSizeEnforced(types.EdgeLeft, 8, bounds, 20, 80))
	require.False(t, MinSizeEnforced(types.EdgeRight, 9, bounds, 20, 80))
}

func TestMoveEdge(t *testing.T) {
	b := types.RectFromInts[F](240, 240, 480, 480)

	tests := []struct {
		edge   types.Edge
		shrink bool
		want   types.Rect[F]
	}{
		{types.EdgeTop, true, types.RectFromInts[F](240, 260, 480, 480)},
		{types.EdgeTop, false, types.RectFromInts[F](240, 220, 480, 480)},
		{types.EdgeRight, true, types.RectFromInts[F](240, 240, 460, 480)},
		{types.EdgeRight, false, types.RectFromInts[F](240, 240, 500, 480)},
		{types.EdgeBottom, true, types.RectFromInts[F](240, 240, 480, 460)},
		{types.EdgeBottom, false, types.RectFromInts[F](240, 240, 480, 500)},
		{types.EdgeLeft, true, types.RectFromInts[F](260, 240, 480, 480)},
		{types.EdgeLeft, false, types.RectFromInts[F](220, 240, 480, 480)},
	}

	for _, tt := range tests {
		name := tt.edge.String()
		if tt.shrink {
			name += " shrinks"
		} else {
			name += " grows"
		}
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, MoveEdge(tt.edge, tt.shrink, 1, b, 20))
		})
	}
}

func TestChangeBounds(t *testing.T) {
	overloaded := types.GridPos{Row: 1, Col: 1}

	t.Run("same row shrinks and other row grows", func(t *testing.T) {
		grid := newGrid(t)

		require.NoError(t, grid[3].ChangeBounds(types.EdgeTop, 1, overloaded))    // partition 4, row 1
		require.NoError(t, grid[0].ChangeBounds(types.EdgeBottom, 1, overloaded)) // partition 1, row 0

		require.Equal(t, types.RectFromInts[F](0, 260, 240, 480), grid[3].Bounds())
		require.Equal(t, types.RectFromInts[F](0, 0, 240, 260), grid[0].Bounds())
	})

	t.Run("same column shrinks and other column grows", func(t *testing.T) {
		grid := newGrid(t)

		require.NoError(t, grid[1].ChangeBounds(types.EdgeRight, 1, overloaded)) // partition 2, col 1
		require.NoError(t, grid[2].ChangeBounds(types.EdgeLeft, 1, overloaded))  // partition 3, col 2

		require.Equal(t, types.RectFromInts[F](240, 0, 460, 240), grid[1].Bounds())
		require.Equal(t, types.RectFromInts[F](460, 0, 720, 240), grid[2].Bounds())
	})

	t.Run("clears the minimal flag", func(t *testing.T) {
		grid := newGrid(t)
		grid[8].SetAtMinimalSize(true)

		require.NoError(t, grid[8].ChangeBounds(types.EdgeTop, 1, overloaded))
		require.False(t, grid[8].AtMinimalSize())
	})

	t.Run("reports shrinking below the minimum size", func(t *testing.T) {
		grid := newGrid(t)

		err := grid[4].ChangeBounds(types.EdgeTop, 9, overloaded)
		require.ErrorIs(t, err, types.ErrInvariantViolation)
	})
}

func TestEvaluateBoundaryChange(t *testing.T) {
	grid := newGrid(t)
	lookup := func(id uint32) []types.Agent[F] { return grid[id-1].Snapshot() }
	overloaded := types.GridPos{Row: 1, Col: 1}

	// partition 2 sits north of the overloaded partition 5
	require.NoError(t, grid[1].Accept(agent(1, 300, 100), 0))
	require.NoError(t, grid[1].Accept(agent(2, 300, 230), 0))
	// agents of partition 5 inside the band partition 2 would take over
	require.NoError(t, grid[4].Accept(agent(3, 300, 250), 0))
	require.NoError(t, grid[4].Accept(agent(4, 300, 260), 0))
	require.NoError(t, grid[4].Accept(agent(5, 300, 261), 0))

	t.Run("growing bottom edge picks up the released band inclusively", func(t *testing.T) {
		eval := grid[1].EvaluateBoundaryChange(
			[]EdgeChange{{Edge: types.EdgeBottom, Steps: 1}}, overloaded, lookup)

		require.Equal(t, uint32(2), eval.PartitionID)
		require.Equal(t, 2, eval.Before)
		require.Equal(t, 4, eval.After)
		require.Equal(t, 2, grid[1].Count(), "evaluation must not commit")
		require.Equal(t, types.RectFromInts[F](240, 0, 480, 240), grid[1].Bounds())
	})

	t.Run("shrinking partition predicts what it keeps", func(t *testing.T) {
		eval := grid[4].EvaluateBoundaryChange(
			[]EdgeChange{{Edge: types.EdgeTop, Steps: 1}}, overloaded, lookup)

		require.Equal(t, 3, eval.Before)
		require.Equal(t, 2, eval.After)
	})
}

func TestAffectedNeighbors(t *testing.T) {
	grid := newGrid(t)
	center := grid[4]

	t.Run("adjoining edges add the diagonal", func(t *testing.T) {
		got := center.AffectedNeighbors([]EdgeChange{
			{Edge: types.EdgeTop, Steps: 1},
			{Edge: types.EdgeLeft, Steps: 2},
		})
		require.Equal(t, []uint32{1, 2, 4}, got)
	})

	t.Run("opposite edges add no diagonal", func(t *testing.T) {
		got := center.AffectedNeighbors([]EdgeChange{
			{Edge: types.EdgeTop, Steps: 1},
			{Edge: types.EdgeBottom, Steps: 1},
		})
		require.Equal(t, []uint32{2, 8}, got)
	})

	t.Run("zero step changes are ignored", func(t *testing.T) {
		require.Empty(t, center.AffectedNeighbors([]EdgeChange{{Edge: types.EdgeRight, Steps: 0}}))
	})
}
