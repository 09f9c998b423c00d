// Package source provides built-in agent source implementations.
//
// Agent sources provide the initial agent population of a simulation.
// The package includes:
//
//   - Static: Fixed list of agents, for known test states
//   - Uniform: Seeded uniform placement, the same number of agents per partition
//   - Noise: Seeded clustered placement driven by simplex noise, for load-balancing workloads
//   - LoadFile: Static source read from a YAML file
//
// Uniform and Noise are deterministic: the same seed and layout always produce the
// same agents.
//
// Custom sources can be implemented by satisfying the types.AgentSource interface.
package source
