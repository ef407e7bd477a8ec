// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, and debug introspection for rings.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML config loading with defaults and validation
//   - Config snapshots with reload listeners
//   - Transfer counters and an instrumented ring wrapper
//   - Debug probes reporting live ring state
package control
