// Package strategy provides the built-in boundary strategy implementations.
//
// A boundary strategy decides how far each edge of an overloaded partition moves
// inward so that agents are released to its neighbors. The package includes three
// built-in strategies:
//
//   - Naive: one step on every valid edge (no histogram)
//   - DistributionDriven: histogram-guided steps until the release quota is met
//   - Negotiated: DistributionDriven planning, validated by every affected partition
//
// # Strategy Selection Guide
//
// Naive:
//   - Use for uniform agent distributions
//   - Releases an unpredictable number of agents
//   - Never consults the agent positions
//
// DistributionDriven:
//   - Use when agents cluster near particular edges
//   - Moves the edges that release agents, skipping empty regions quickly
//   - Configuration: release percentage (via BalanceParams.Quota)
//
// Negotiated:
//   - Use when a boundary change may overload a neighbor
//   - Affected partitions predict their post-change counts before anything is committed
//   - Configuration: tolerance, policy (reject or log-only)
//
// Every strategy honors the minimum-size rule: a plan never shrinks the overloaded
// partition below BalanceParams.MinSize, checked cumulatively across edges.
//
// Custom strategies can be implemented by satisfying the types.BoundaryStrategy interface.
package strategy
