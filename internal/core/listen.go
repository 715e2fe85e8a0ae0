package core

import (
	"context"
	"errors"
	"io"
	"net/netip"
	"os"
	"sync"
	"time"

	"gosock/internal/capability"
	"gosock/internal/session"
	"gosock/socket"
	"gosock/util"
)

// ListenMode accepts inbound connections and runs a capability on
// each one.  With KeepOpen it serves every peer on its own goroutine
// until ctx ends or MaxConns peers have been accepted; otherwise it
// serves a single peer and returns.
type ListenMode struct {
	IP         string // "" = socket.DefaultListenIP
	Port       int
	Backlog    int
	KeepOpen   bool
	MaxConns   int
	Async      bool
	BufferSize int
	Capability capability.Capability
	Observer   socket.Observer
	Logger     *util.Logger

	// GracePeriod bounds how long Run waits for in-flight sessions
	// once ctx ends; zero waits for all of them.
	GracePeriod time.Duration

	// Ready, when set, receives the bound address once listening.
	Ready chan<- netip.AddrPort

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ListenMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ListenMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run binds, listens and dispatches accepted sockets to the
// capability.
func (m *ListenMode) Run(ctx context.Context) error {
	ln, err := socket.ListenPort(m.Port, m.IP, m.Backlog, socket.WithObserver(m.Observer))
	if err != nil {
		return err
	}
	defer ln.Close() //nolint:errcheck

	m.Logger.Info("listening on %s (backlog %d)", ln.Addr(), ln.Backlog())
	if m.Ready != nil {
		m.Ready <- ln.Addr()
	}

	if !m.Async {
		// A blocking Accept is only woken by closing the listener.
		stop := context.AfterFunc(ctx, func() { ln.Close() }) //nolint:errcheck
		defer stop()
	}

	out := &lockedWriter{w: m.stdout()}
	var wg sync.WaitGroup
	defer m.drain(ctx, &wg)

	for served := 0; m.MaxConns == 0 || served < m.MaxConns; served++ {
		sock, err := m.accept(ctx, ln)
		if err != nil {
			if ctx.Err() != nil {
				m.Logger.Verbose("listener stopped: %v", context.Cause(ctx))
				return nil
			}
			if m.retryAccept(ctx, err) {
				served--
				continue
			}
			return err
		}
		m.Logger.Verbose("connection from %s", sock.RemoteAddr())

		sess := session.New(sock, m.stdin(), out, m.Logger.Named(sock.RemoteAddr().String()))
		sess.Async = m.Async
		sess.BufferSize = m.BufferSize

		if !m.KeepOpen {
			return runSession(ctx, m.Capability, sess)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runSession(ctx, m.Capability, sess); err != nil {
				m.Logger.Warn("%v", err)
			}
		}()
	}

	m.Logger.Verbose("accepted %d connections, no longer listening", m.MaxConns)
	ln.Close() //nolint:errcheck
	return nil
}

func (m *ListenMode) accept(ctx context.Context, ln *socket.Listener) (*socket.Conn, error) {
	if m.Async {
		return ln.AcceptAsync(ctx).Await()
	}
	sock, err := ln.Accept()
	if err != nil && ctx.Err() != nil && errors.Is(err, socket.ErrClosed) {
		return nil, ctx.Err()
	}
	return sock, err
}

// acceptRetryDelay spaces out accepts after a transient failure.
const acceptRetryDelay = 50 * time.Millisecond

// retryAccept reports whether a keep-open listener should survive err,
// pausing briefly first.  It gives up when ctx ends during the pause.
func (m *ListenMode) retryAccept(ctx context.Context, err error) bool {
	if !m.KeepOpen || !socket.IsRetryable(err) {
		return false
	}
	m.Logger.Warn("accept: %v; retrying", err)
	t := time.NewTimer(acceptRetryDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// drain waits for keep-open sessions.  After ctx ends the wait is cut
// short at GracePeriod and any stragglers are left to finish on their
// own.
func (m *ListenMode) drain(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
	}
	if m.GracePeriod <= 0 {
		<-done
		return
	}
	t := time.NewTimer(m.GracePeriod)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		m.Logger.Warn("sessions still running after %v grace period", m.GracePeriod)
	}
}

// lockedWriter serialises writes from concurrent sessions.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
