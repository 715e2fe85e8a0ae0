package core

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/text/encoding"

	"gosock/internal/capability"
	"gosock/internal/session"
	"gosock/internal/transport"
	"gosock/socket"
	"gosock/util"
)

// ConnectMode dials a remote endpoint and runs a capability on the
// resulting socket, the default client mode.
type ConnectMode struct {
	Dialer     transport.Dialer
	Capability capability.Capability
	Host       string
	Port       int
	Encoding   encoding.Encoding
	Observer   socket.Observer
	Async      bool
	BufferSize int
	Logger     *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ConnectMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ConnectMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run connects, hands the socket to the capability and closes it when
// the capability returns.  The dialer is closed as well.
func (m *ConnectMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	m.Logger.Verbose("connecting to %s", util.FormatAddr(m.Host, m.Port))

	sock, err := socket.Dial(ctx, m.Host, m.Port,
		socket.WithDialer(m.Dialer.Dial),
		socket.WithEncoding(m.Encoding),
		socket.WithObserver(m.Observer),
	)
	if err != nil {
		return err
	}

	m.Logger.Verbose("connected to %s (%s)", sock.RemoteAddr(), socket.EncodingName(sock.Encoding()))

	sess := session.New(sock, m.stdin(), m.stdout(), m.Logger)
	sess.Async = m.Async
	sess.BufferSize = m.BufferSize
	return runSession(ctx, m.Capability, sess)
}

// runSession runs c on sess and closes the socket afterwards.  When
// ctx ends first the socket is closed underneath the capability, which
// unblocks a synchronous receive; the resulting error is swallowed.
func runSession(ctx context.Context, c capability.Capability, sess *session.Session) error {
	stop := context.AfterFunc(ctx, func() { sess.Sock.Close() }) //nolint:errcheck
	defer stop()

	err := c.Handle(ctx, sess)
	if cerr := sess.Sock.Close(); err == nil && !errors.Is(cerr, socket.ErrClosed) {
		err = cerr
	}

	if ctx.Err() != nil && (errors.Is(err, socket.ErrClosed) || errors.Is(err, socket.ErrCanceled)) {
		return nil
	}
	return err
}
