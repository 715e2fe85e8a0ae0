package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	sockerr "gosock/internal/errors"
)

// Listener is a bound, listening IPv4 TCP socket.
type Listener struct {
	ln       net.Listener
	addr     netip.AddrPort
	backlog  int
	observer Observer
	closed   atomic.Bool
}

// Listen binds addr and starts listening with the given backlog
// (DefaultBacklog when backlog <= 0).  Port 0 picks an ephemeral port;
// Addr reports the one chosen.
func Listen(addr netip.AddrPort, backlog int, opts ...Option) (*Listener, error) {
	ip := addr.Addr().Unmap()
	if !addr.IsValid() || !ip.Is4() {
		return nil, sockerr.Wrap(ErrAddressFormat, "listen", addr.String(),
			errors.New("not an IPv4 endpoint"))
	}
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	o := buildOptions(opts)

	addr = netip.AddrPortFrom(ip, addr.Port())
	ln, err := listenTCP4(addr, backlog)
	if err != nil {
		werr := sockerr.Wrap(ErrBind, "listen", addr.String(), err)
		o.observer.RecordError(werr.Error())
		return nil, werr
	}

	bound := addr
	if ta, ok := ln.Addr().(*net.TCPAddr); ok {
		ap := ta.AddrPort()
		bound = netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	return &Listener{
		ln:       ln,
		addr:     bound,
		backlog:  backlog,
		observer: o.observer,
	}, nil
}

// ListenPort parses ip (DefaultListenIP when empty) and listens on
// ip:port.  A malformed ip fails before anything is bound.
func ListenPort(port int, ip string, backlog int, opts ...Option) (*Listener, error) {
	if ip == "" {
		ip = DefaultListenIP
	}
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return nil, sockerr.Wrap(ErrAddressFormat, "listen", ip, err)
	}
	if port < 0 || port > 65535 {
		return nil, sockerr.Wrap(ErrAddressFormat, "listen", ip,
			fmt.Errorf("port %d out of range 0-65535", port))
	}
	return Listen(netip.AddrPortFrom(a, uint16(port)), backlog, opts...)
}

// Addr returns the bound local endpoint.
func (l *Listener) Addr() netip.AddrPort { return l.addr }

// Backlog returns the queue depth requested at construction.
func (l *Listener) Backlog() int { return l.backlog }

// NetListener returns the underlying listener.
func (l *Listener) NetListener() net.Listener { return l.ln }

// Accept blocks until a peer connects and returns a Conn that owns the
// accepted socket.  Accepted sockets use UTF-8.
func (l *Listener) Accept() (*Conn, error) {
	return l.accept(context.Background())
}

// AcceptAsync is the asynchronous form of Accept.  Ending ctx aborts the
// pending accept with an ErrCanceled error; queued peers stay queued.
func (l *Listener) AcceptAsync(ctx context.Context) *Future[*Conn] {
	return goFuture(func() (*Conn, error) { return l.accept(ctx) })
}

func (l *Listener) accept(ctx context.Context) (*Conn, error) {
	addr := l.addr.String()
	if l.closed.Load() {
		return nil, sockerr.Closed("accept", addr)
	}
	if err := ctx.Err(); err != nil {
		return nil, sockerr.Canceled("accept", addr, err)
	}

	var c net.Conn
	var err error
	interrupted := interruptible(ctx, l.setDeadline, func() {
		c, err = l.ln.Accept()
	})

	if err != nil {
		switch {
		case l.closed.Load() || errors.Is(err, net.ErrClosed):
			return nil, sockerr.Closed("accept", addr)
		case interrupted && sockerr.IsTimeout(err):
			return nil, sockerr.Canceled("accept", addr, context.Cause(ctx))
		}
		werr := sockerr.Wrap(ErrAccept, "accept", addr, err)
		l.observer.RecordError(werr.Error())
		return nil, werr
	}

	l.observer.Accepted()
	return newConn(c, &options{encoding: UTF8, observer: l.observer}), nil
}

func (l *Listener) setDeadline(t time.Time) error {
	if dl, ok := l.ln.(interface{ SetDeadline(time.Time) error }); ok {
		return dl.SetDeadline(t)
	}
	return errors.ErrUnsupported
}

// Close releases the listening socket.  Connections already accepted
// are unaffected.  Calling Close again returns an ErrClosed error.
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return sockerr.Closed("close", l.addr.String())
	}
	if err := l.ln.Close(); err != nil {
		return sockerr.Wrap(ErrTransport, "close", l.addr.String(), err)
	}
	return nil
}
