// Package core is the orchestration layer.  It composes a transport,
// a socket and a capability into a complete operational mode and
// provides a builder that selects the mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  socket  →  session  →  capability  →  core  →  cmd (CLI)
package core

import "context"

// Mode represents a complete operational mode of gosock (connect or
// listen).  Each mode owns its full lifecycle from socket creation to
// teardown.
type Mode interface {
	Run(ctx context.Context) error
}
