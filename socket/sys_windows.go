package socket

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// fionread is _IOR('f', 127, u_long), accepted by WSAIoctl as well as
// ioctlsocket.
const fionread = 0x4004667f

// pendingBytes asks Winsock how many bytes are queued for reading.
func pendingBytes(sc syscall.Conn) (int, error) {
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n, ret uint32
	var ierr error
	if err := raw.Control(func(fd uintptr) {
		ierr = windows.WSAIoctl(windows.Handle(fd), fionread, nil, 0,
			(*byte)(unsafe.Pointer(&n)), uint32(unsafe.Sizeof(n)), &ret, nil, 0)
	}); err != nil {
		return 0, err
	}
	return int(n), ierr
}
