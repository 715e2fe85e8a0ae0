//go:build !linux && !darwin

package socket

import (
	"errors"
	"net"
	"syscall"
)

func shutdownBoth(sc syscall.Conn) error {
	tc, ok := sc.(*net.TCPConn)
	if !ok {
		return nil
	}
	return errors.Join(tc.CloseWrite(), tc.CloseRead())
}
