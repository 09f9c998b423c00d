// Package behavior provides reference movement rules for boidgrid simulations.
//
// Flock implements Reynolds' three steering rules (cohesion, alignment and
// separation) in the steering-force form: each rule yields a desired velocity at
// full speed, the steer is desired minus current velocity, limited to MaxForce.
//
// Flock is generic over the scalar type, so the same rules run in float64 or in
// Q47.16 fixed point.
package behavior
