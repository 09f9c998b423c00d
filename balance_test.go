package boidgrid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/boidgrid/partition"
)

func affectedIDs(affected []AffectedPartition) []uint32 {
	ids := make([]uint32, len(affected))
	for i, a := range affected {
		ids[i] = a.ID
	}

	return ids
}

func TestIdentifyAffected(t *testing.T) {
	t.Run("top edge moves both rows across every column", func(t *testing.T) {
		affected := IdentifyAffected(GridPos{Row: 1, Col: 1}, EdgeSteps{2, 0, 0, 0}, 3)

		require.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, affectedIDs(affected))
		for _, a := range affected[:3] {
			require.Equal(t, []partition.EdgeChange{{Edge: EdgeBottom, Steps: 2}}, a.Changes)
		}
		for _, a := range affected[3:] {
			require.Equal(t, []partition.EdgeChange{{Edge: EdgeTop, Steps: 2}}, a.Changes)
		}
	})

	t.Run("center request touches the whole grid", func(t *testing.T) {
		affected := IdentifyAffected(GridPos{Row: 1, Col: 1}, EdgeSteps{1, 1, 1, 1}, 3)

		require.Equal(t, []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9}, affectedIDs(affected))
		require.Equal(t, []partition.EdgeChange{
			{Edge: EdgeTop, Steps: 1},
			{Edge: EdgeRight, Steps: 1},
			{Edge: EdgeBottom, Steps: 1},
			{Edge: EdgeLeft, Steps: 1},
		}, affected[4].Changes)
		require.Equal(t, []partition.EdgeChange{
			{Edge: EdgeBottom, Steps: 1},
			{Edge: EdgeRight, Steps: 1},
		}, affected[0].Changes)
	})

	t.Run("corner request ignores edges on the plane border", func(t *testing.T) {
		affected := IdentifyAffected(GridPos{Row: 0, Col: 0}, EdgeSteps{1, 1, 1, 1}, 3)

		require.Equal(t, []uint32{1, 2, 3, 4, 5, 6, 7, 8}, affectedIDs(affected))
		require.Equal(t, []partition.EdgeChange{
			{Edge: EdgeRight, Steps: 1},
			{Edge: EdgeBottom, Steps: 1},
		}, affected[0].Changes)
		require.Equal(t, []partition.EdgeChange{
			{Edge: EdgeLeft, Steps: 1},
			{Edge: EdgeTop, Steps: 1},
		}, affected[4].Changes)
		require.Equal(t, []partition.EdgeChange{{Edge: EdgeLeft, Steps: 1}}, affected[7].Changes)
	})

	t.Run("no steps affect nothing", func(t *testing.T) {
		require.Empty(t, IdentifyAffected(GridPos{Row: 1, Col: 1}, EdgeSteps{}, 3))
	})

	t.Run("single partition grid has no movable edge", func(t *testing.T) {
		require.Empty(t, IdentifyAffected(GridPos{}, EdgeSteps{1, 1, 1, 1}, 1))
	})
}
