//go:build linux || darwin

package socket

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// pendingBytes asks the kernel how many bytes are queued for reading.
func pendingBytes(sc syscall.Conn) (int, error) {
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n int
	var ierr error
	if err := raw.Control(func(fd uintptr) {
		n, ierr = unix.IoctlGetInt(int(fd), fionread)
	}); err != nil {
		return 0, err
	}
	return n, ierr
}

// shutdownBoth issues shutdown(SHUT_RDWR).  A peer that already reset
// the connection leaves nothing to shut down, which is not an error.
func shutdownBoth(sc syscall.Conn) error {
	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = unix.Shutdown(int(fd), unix.SHUT_RDWR)
	}); err != nil {
		return err
	}
	if errors.Is(serr, unix.ENOTCONN) {
		return nil
	}
	return serr
}
