package boidgrid

import "github.com/arloliu/boidgrid/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, so internal packages can depend on `types` without depending on
// the root `boidgrid` package.
type (
	Float64            = types.Float64
	Fixed              = types.Fixed
	AgentSpec          = types.AgentSpec
	Layout             = types.Layout
	GridPos            = types.GridPos
	Edge               = types.Edge
	EdgeSteps          = types.EdgeSteps
	Direction          = types.Direction
	BalanceParams      = types.BalanceParams
	Plan               = types.Plan
	TickReport         = types.TickReport
	BoundsChange       = types.BoundsChange
	Verdict            = types.Verdict
	BoundaryEvaluation = types.BoundaryEvaluation
)

// Generic re-exports.
type (
	Agent[T types.Scalar[T]]            = types.Agent[T]
	Vec2[T types.Scalar[T]]             = types.Vec2[T]
	Rect[T types.Scalar[T]]             = types.Rect[T]
	PlanRequest[T types.Scalar[T]]      = types.PlanRequest[T]
	BoundaryStrategy[T types.Scalar[T]] = types.BoundaryStrategy[T]
	Behavior[T types.Scalar[T]]         = types.Behavior[T]
	BehaviorFunc[T types.Scalar[T]]     = types.BehaviorFunc[T]
)

// Re-export interfaces from the types package for convenience.
type (
	AgentSource      = types.AgentSource
	Negotiator       = types.Negotiator
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export edge and direction constants.
const (
	EdgeTop    = types.EdgeTop
	EdgeRight  = types.EdgeRight
	EdgeBottom = types.EdgeBottom
	EdgeLeft   = types.EdgeLeft

	NorthWest = types.NorthWest
	North     = types.North
	NorthEast = types.NorthEast
	East      = types.East
	SouthEast = types.SouthEast
	South     = types.South
	SouthWest = types.SouthWest
	West      = types.West
)

// V returns the vector (x, y) converted to T.
func V[T types.Scalar[T]](x, y float64) Vec2[T] {
	return types.V[T](x, y)
}

// RectFromInts returns the rectangle [xmin, xmax] x [ymin, ymax] converted to T.
func RectFromInts[T types.Scalar[T]](xmin, ymin, xmax, ymax int) Rect[T] {
	return types.RectFromInts[T](xmin, ymin, xmax, ymax)
}
