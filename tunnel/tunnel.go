// Package tunnel carries outbound stream connections through an SSH
// gateway using golang.org/x/crypto/ssh.
package tunnel

import (
	"context"
	"net"
)

// Tunnel is an encrypted channel through which connections can be
// opened from the gateway's side.
type Tunnel interface {
	// Connect establishes the tunnel to the gateway.
	Connect(ctx context.Context) error

	// Dial opens a connection to address through the tunnel.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears down the tunnel and every connection opened through it.
	Close() error

	// IsAlive reports whether the gateway connection is still up.
	IsAlive() bool
}
