package socket

import (
	"net"
	"net/netip"
	"os"

	"golang.org/x/sys/unix"
)

// listenTCP4 builds the listening socket by hand so that backlog reaches
// listen(2) unchanged; net.Listen always uses the system maximum.
func listenTCP4(addr netip.AddrPort, backlog int) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt", err)
	}
	sa := &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	// FileListener dups the descriptor and registers the copy with the
	// runtime poller; the original is released with f.
	f := os.NewFile(uintptr(fd), "tcp4:"+addr.String())
	defer f.Close()
	return net.FileListener(f)
}
