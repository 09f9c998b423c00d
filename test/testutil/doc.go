// Package testutil provides shared helpers for load and stress tests.
//
// Examples of utilities that belong here:
//   - Load runners that drive a coordinator for a fixed number of ticks
//   - Grid assertions (ownership, conservation, tiling)
//   - Resource monitoring for leak detection
//
// Note: For loggers, metric recorders and scripted behaviors, use the
// github.com/arloliu/boidgrid/testing package.
package testutil
