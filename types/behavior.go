package types

// Behavior is the external movement rule.
//
// Given an agent and its candidate neighbors (a superset that includes the agent
// itself and agents of adjacent partitions), NextState returns the agent's next
// position and velocity. Implementations must be deterministic and must not retain
// or mutate the neighbors slice; it is shared read-only between goroutines.
type Behavior[T Scalar[T]] interface {
	NextState(self Agent[T], neighbors []Agent[T]) (position, velocity Vec2[T])
}

// BehaviorFunc adapts a function to the Behavior interface.
type BehaviorFunc[T Scalar[T]] func(self Agent[T], neighbors []Agent[T]) (Vec2[T], Vec2[T])

// NextState calls f(self, neighbors).
func (f BehaviorFunc[T]) NextState(self Agent[T], neighbors []Agent[T]) (Vec2[T], Vec2[T]) {
	return f(self, neighbors)
}
