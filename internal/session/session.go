// Package session binds one connected socket to the local I/O endpoints
// and picks between the blocking and Future-returning socket calls.
//
// Capabilities never touch os.Stdin or os.Stdout directly; tests swap
// in buffers.
package session

import (
	"context"
	"io"

	"gosock/socket"
	"gosock/util"
)

// Session encapsulates the runtime context for a single connection.
type Session struct {
	Sock   *socket.Conn
	Stdin  io.Reader
	Stdout io.Writer
	Logger *util.Logger

	// Async routes transfers through the Future-returning calls so
	// that ctx can abort a pending receive.
	Async bool

	// BufferSize is passed to ReceiveString (<= 0 selects the default).
	BufferSize int
}

// New creates a Session bound to the given socket and I/O pair.
func New(sock *socket.Conn, stdin io.Reader, stdout io.Writer, logger *util.Logger) *Session {
	return &Session{
		Sock:   sock,
		Stdin:  stdin,
		Stdout: stdout,
		Logger: logger,
	}
}

// Receive performs one string receive.  An empty result means the peer
// closed its side.
func (s *Session) Receive(ctx context.Context) (string, error) {
	if s.Async {
		return s.Sock.ReceiveStringAsync(ctx, s.BufferSize).Await()
	}
	return s.Sock.ReceiveString(s.BufferSize)
}

// Send performs one string send and returns the bytes written.
func (s *Session) Send(ctx context.Context, text string) (int, error) {
	if s.Async {
		return s.Sock.SendAsync(ctx, text).Await()
	}
	return s.Sock.Send(text)
}
