// Package capability defines what happens over an established
// connection.  Each Capability encapsulates a single behaviour and
// operates on a Session rather than a raw socket, which keeps it
// testable and independent of how the socket was obtained.
package capability

import (
	"context"

	"gosock/internal/session"
)

// Capability handles a single connection.  Implementations are Echo
// (server side) and Exchange (client side).
type Capability interface {
	// Handle runs the capability against the given session.  It
	// blocks until the peer closes, the local input ends or ctx is
	// cancelled.
	Handle(ctx context.Context, sess *session.Session) error
}
