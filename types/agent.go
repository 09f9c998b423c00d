package types

// Agent is a single simulated boid.
//
// An agent is owned by exactly one partition at any instant. ID is stable across
// transfers between partitions.
type Agent[T Scalar[T]] struct {
	ID       uint64  `json:"id" yaml:"id"`
	Position Vec2[T] `json:"position" yaml:"position"`
	Velocity Vec2[T] `json:"velocity" yaml:"velocity"`

	// Processed is set once the agent's next state has been computed in the current tick.
	Processed bool `json:"-" yaml:"-"`
}

// AgentSpec is the numeric-agnostic description of an agent used to seed a simulation.
type AgentSpec struct {
	ID uint64  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
	VX float64 `json:"vx" yaml:"vx"`
	VY float64 `json:"vy" yaml:"vy"`
}

// AgentFromSpec converts an AgentSpec into an Agent using T's conversion rules.
func AgentFromSpec[T Scalar[T]](s AgentSpec) Agent[T] {
	return Agent[T]{
		ID:       s.ID,
		Position: V[T](s.X, s.Y),
		Velocity: V[T](s.VX, s.VY),
	}
}

// Spec converts the agent back into its numeric-agnostic description.
func (a Agent[T]) Spec() AgentSpec {
	return AgentSpec{
		ID: a.ID,
		X:  a.Position.X.Float64(),
		Y:  a.Position.Y.Float64(),
		VX: a.Velocity.X.Float64(),
		VY: a.Velocity.Y.Float64(),
	}
}
