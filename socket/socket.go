// Package socket is a thin object layer over IPv4 TCP sockets.
//
// A [Conn] owns one connected stream socket and offers byte and string
// transfers in blocking and asynchronous form.  A [Listener] owns one
// bound, listening socket and produces a [Conn] for every accepted peer.
//
// Every transfer maps onto a single read, write or accept on the
// underlying socket.  There is no framing: a receive returns whatever
// one read delivered, which may be less than requested, and a
// successful receive of zero bytes means the peer shut down its side.
//
// Asynchronous variants return a [Future].  The pending operation parks
// on the runtime network poller; the context passed to it aborts the
// wait and yields an error matching [ErrCanceled].
//
// Instances are owned by one logical caller at a time.  Close is the
// only release path and must run exactly once; pair every constructor
// with a deferred Close.
package socket

import (
	sockerr "gosock/internal/errors"
)

const (
	// DefaultBufferSize is the receive buffer size used by ReceiveString
	// when no positive size is supplied.
	DefaultBufferSize = 1024

	// DefaultBacklog is the pending-connection queue depth used when no
	// positive backlog is supplied.
	DefaultBacklog = 10

	// DefaultListenIP is the interface a listener binds when none is
	// given.
	DefaultListenIP = "127.0.0.1"

	network = "tcp4"
)

// Error kinds.  Every error returned by this package matches exactly one
// of them under errors.Is; the OS-level cause, when there is one, is
// reachable the same way.
var (
	ErrAddressFormat   = sockerr.ErrAddressFormat
	ErrConnection      = sockerr.ErrConnection
	ErrBind            = sockerr.ErrBind
	ErrAccept          = sockerr.ErrAccept
	ErrTransport       = sockerr.ErrTransport
	ErrCanceled        = sockerr.ErrCanceled
	ErrClosed          = sockerr.ErrClosed
	ErrInvalidArgument = sockerr.ErrInvalidArgument
)

// KindOf returns the error kind carried by err, or nil.
func KindOf(err error) error { return sockerr.KindOf(err) }

// IsRetryable reports whether err is a transient failure, such as an
// accept that lost a descriptor race, worth attempting again.
func IsRetryable(err error) bool { return sockerr.IsRetryable(err) }
