package socket

import "golang.org/x/sys/unix"

// fionread is FIONREAD under its Linux socket name.
const fionread = unix.SIOCINQ
