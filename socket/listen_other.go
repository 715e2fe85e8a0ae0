//go:build !linux

package socket

import (
	"context"
	"net"
	"net/netip"
)

// listenTCP4 uses the standard listener; the platform's default backlog
// applies.
func listenTCP4(addr netip.AddrPort, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(context.Background(), network, addr.String())
}
