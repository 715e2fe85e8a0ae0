package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"sync/atomic"
	"syscall"

	"golang.org/x/text/encoding"

	sockerr "gosock/internal/errors"
	"gosock/util"
)

// Conn is a connected IPv4 TCP socket.  It exclusively owns the
// underlying connection until Close.
type Conn struct {
	conn     net.Conn
	enc      encoding.Encoding
	observer Observer
	addr     string // remote address, for error context
	closed   atomic.Bool
}

// Dial connects to host:port.  host may be a name or an IPv4 literal.
func Dial(ctx context.Context, host string, port int, opts ...Option) (*Conn, error) {
	address := util.FormatAddr(host, port)
	if host == "" {
		return nil, sockerr.Wrap(ErrAddressFormat, "dial", address, errors.New("empty host"))
	}
	if !util.ValidPort(port) {
		return nil, sockerr.Wrap(ErrAddressFormat, "dial", address,
			fmt.Errorf("port %d out of range 1-65535", port))
	}
	return dial(ctx, address, buildOptions(opts))
}

// DialAddrPort connects to a structured IPv4 endpoint.
func DialAddrPort(ctx context.Context, addr netip.AddrPort, opts ...Option) (*Conn, error) {
	ip := addr.Addr().Unmap()
	if !addr.IsValid() || !ip.Is4() {
		return nil, sockerr.Wrap(ErrAddressFormat, "dial", addr.String(),
			errors.New("not an IPv4 endpoint"))
	}
	if addr.Port() == 0 {
		return nil, sockerr.Wrap(ErrAddressFormat, "dial", addr.String(),
			errors.New("port 0 is not a valid destination"))
	}
	return dial(ctx, netip.AddrPortFrom(ip, addr.Port()).String(), buildOptions(opts))
}

func dial(ctx context.Context, address string, o *options) (*Conn, error) {
	c, err := o.dial(ctx, network, address)
	if err != nil {
		werr := sockerr.Wrap(ErrConnection, "dial", address, err)
		o.observer.RecordError(werr.Error())
		return nil, werr
	}
	return newConn(c, o), nil
}

// newConn wraps an already connected socket without any connect step.
func newConn(c net.Conn, o *options) *Conn {
	o.observer.ConnectionOpened()
	addr := ""
	if ra := c.RemoteAddr(); ra != nil {
		addr = ra.String()
	}
	return &Conn{
		conn:     c,
		enc:      o.encoding,
		observer: o.observer,
		addr:     addr,
	}
}

// ── Accessors ────────────────────────────────────────────────────────

// NetConn returns the underlying connection.  Reading or writing it
// directly bypasses the byte counters but is otherwise harmless.
func (c *Conn) NetConn() net.Conn { return c.conn }

func (c *Conn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Encoding returns the text encoding used by the string operations.
func (c *Conn) Encoding() encoding.Encoding { return c.enc }

// ── Queries ──────────────────────────────────────────────────────────

// Available returns the number of bytes that can be read without
// blocking.  Connections without a file descriptor (tunnel channels)
// always report 0.
func (c *Conn) Available() (int, error) {
	if c.closed.Load() {
		return 0, sockerr.Closed("available", c.addr)
	}
	sc, ok := c.conn.(syscall.Conn)
	if !ok {
		return 0, nil
	}
	n, err := pendingBytes(sc)
	if err != nil {
		return 0, c.fail("available", err)
	}
	return n, nil
}

// AnythingToReceive reports whether at least one byte is ready to be
// read.  It never blocks and consumes nothing.
func (c *Conn) AnythingToReceive() (bool, error) {
	n, err := c.Available()
	return n > 0, err
}

// ── Receive ──────────────────────────────────────────────────────────

// Receive performs one blocking read of up to count bytes into
// buf[offset:].  It returns the number of bytes read; 0 with a nil
// error means the peer closed its side.
func (c *Conn) Receive(buf []byte, offset, count int) (int, error) {
	p, err := c.span("read", buf, offset, count)
	if err != nil {
		return 0, err
	}
	return c.read(context.Background(), p)
}

// ReceiveAsync is the asynchronous form of Receive.  Ending ctx aborts
// the pending read with an ErrCanceled error and leaves buf untouched.
func (c *Conn) ReceiveAsync(ctx context.Context, buf []byte, offset, count int) *Future[int] {
	p, err := c.span("read", buf, offset, count)
	if err != nil {
		return failedFuture[int](err)
	}
	return goFuture(func() (int, error) { return c.read(ctx, p) })
}

// ReceiveString performs one blocking read into a buffer of bufferSize
// bytes (DefaultBufferSize when bufferSize <= 0), decodes what arrived
// and trims trailing NULs.  A single read is not a message: a string
// the peer sent in one call may arrive split across several receives.
func (c *Conn) ReceiveString(bufferSize int) (string, error) {
	return c.receiveString(context.Background(), bufferSize)
}

// ReceiveStringAsync is the asynchronous form of ReceiveString.
func (c *Conn) ReceiveStringAsync(ctx context.Context, bufferSize int) *Future[string] {
	return goFuture(func() (string, error) { return c.receiveString(ctx, bufferSize) })
}

func (c *Conn) receiveString(ctx context.Context, bufferSize int) (string, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	buf := util.GetBuf(bufferSize)
	defer util.PutBuf(buf)

	n, err := c.read(ctx, *buf)
	if err != nil {
		return "", err
	}
	return decodeString(c.enc, (*buf)[:n])
}

func (c *Conn) read(ctx context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, sockerr.Closed("read", c.addr)
	}
	if err := ctx.Err(); err != nil {
		return 0, sockerr.Canceled("read", c.addr, err)
	}

	var n int
	var err error
	interrupted := interruptible(ctx, c.conn.SetReadDeadline, func() {
		n, err = c.conn.Read(p)
	})
	c.observer.BytesReceived(int64(n))

	switch {
	case err == nil:
		return n, nil
	case c.closed.Load():
		return n, sockerr.Closed("read", c.addr)
	case errors.Is(err, io.EOF):
		return n, nil
	case interrupted && sockerr.IsTimeout(err):
		return n, sockerr.Canceled("read", c.addr, context.Cause(ctx))
	default:
		return n, c.fail("read", err)
	}
}

// ── Send ─────────────────────────────────────────────────────────────

// Send encodes data and performs one blocking write.  It returns the
// number of bytes written, which may be less than the encoded length.
func (c *Conn) Send(data string) (int, error) {
	p, err := c.encode(data)
	if err != nil {
		return 0, err
	}
	return c.write(context.Background(), p)
}

// SendAsync is the asynchronous form of Send.
func (c *Conn) SendAsync(ctx context.Context, data string) *Future[int] {
	p, err := c.encode(data)
	if err != nil {
		return failedFuture[int](err)
	}
	return goFuture(func() (int, error) { return c.write(ctx, p) })
}

// SendBytes performs one blocking write of buf[offset:offset+count].
func (c *Conn) SendBytes(buf []byte, offset, count int) (int, error) {
	p, err := c.span("write", buf, offset, count)
	if err != nil {
		return 0, err
	}
	return c.write(context.Background(), p)
}

// SendBytesAsync is the asynchronous form of SendBytes.  buf must not be
// modified until the future completes.
func (c *Conn) SendBytesAsync(ctx context.Context, buf []byte, offset, count int) *Future[int] {
	p, err := c.span("write", buf, offset, count)
	if err != nil {
		return failedFuture[int](err)
	}
	return goFuture(func() (int, error) { return c.write(ctx, p) })
}

// span validates a caller's window once the socket is known to be open,
// so a disposed Conn reports ErrClosed whatever the arguments.
func (c *Conn) span(op string, buf []byte, offset, count int) ([]byte, error) {
	if c.closed.Load() {
		return nil, sockerr.Closed(op, c.addr)
	}
	return window(buf, offset, count)
}

func (c *Conn) encode(data string) ([]byte, error) {
	if c.closed.Load() {
		return nil, sockerr.Closed("write", c.addr)
	}
	return encodeString(c.enc, data)
}

func (c *Conn) write(ctx context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, sockerr.Closed("write", c.addr)
	}
	if err := ctx.Err(); err != nil {
		return 0, sockerr.Canceled("write", c.addr, err)
	}

	var n int
	var err error
	interrupted := interruptible(ctx, c.conn.SetWriteDeadline, func() {
		n, err = c.conn.Write(p)
	})
	c.observer.BytesSent(int64(n))

	switch {
	case err == nil:
		return n, nil
	case c.closed.Load():
		return n, sockerr.Closed("write", c.addr)
	case interrupted && sockerr.IsTimeout(err):
		return n, sockerr.Canceled("write", c.addr, context.Cause(ctx))
	default:
		return n, c.fail("write", err)
	}
}

// ── Close ────────────────────────────────────────────────────────────

// Close shuts the connection down in both directions and releases it.
// Calling Close again returns an ErrClosed error.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return sockerr.Closed("close", c.addr)
	}
	defer c.observer.ConnectionClosed()

	serr := shutdown(c.conn)
	cerr := c.conn.Close()
	if err := errors.Join(serr, cerr); err != nil {
		return sockerr.Wrap(ErrTransport, "close", c.addr, err)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func (c *Conn) fail(op string, err error) error {
	var werr *sockerr.NetworkError
	if errors.Is(err, net.ErrClosed) {
		werr = sockerr.Closed(op, c.addr)
	} else {
		werr = sockerr.Wrap(ErrTransport, op, c.addr, err)
	}
	c.observer.RecordError(werr.Error())
	return werr
}

// window validates offset/count against buf and returns the sub-slice.
func window(buf []byte, offset, count int) ([]byte, error) {
	if offset < 0 || count < 0 || offset > len(buf) || count > len(buf)-offset {
		return nil, fmt.Errorf("%w: offset %d count %d for buffer of %d bytes",
			ErrInvalidArgument, offset, count, len(buf))
	}
	return buf[offset : offset+count], nil
}

// shutdown disables further sends and receives.  Transports without a
// file descriptor get a half-close when they support one.
func shutdown(c net.Conn) error {
	if sc, ok := c.(syscall.Conn); ok {
		return shutdownBoth(sc)
	}
	if cw, ok := c.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return nil
}
