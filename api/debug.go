// Package api
// Author: momentics
//
// Live debug support for production workloads.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}

// RingState is a point-in-time view of a ring's indices.
type RingState struct {
	Capacity int `yaml:"capacity"`
	Len      int `yaml:"len"`
	Free     int `yaml:"free"`
}

// Snapshot reads the state of r.
func Snapshot(r ByteRing) RingState {
	return RingState{Capacity: r.Cap(), Len: r.Len(), Free: r.Free()}
}
