package socket

import (
	"context"
	"net"

	"golang.org/x/text/encoding"

	"gosock/internal/metrics"
	"gosock/internal/transport"
)

// DialFunc establishes the outbound connection for Dial and
// DialAddrPort.  The network argument is always "tcp4".
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Observer receives activity counters from sockets.  The methods must
// be safe for concurrent use.  *metrics.Collector satisfies it.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	Accepted()
	BytesReceived(n int64)
	BytesSent(n int64)
	RecordError(msg string)
}

// Option configures a Conn or Listener.
type Option func(*options)

type options struct {
	encoding encoding.Encoding
	dial     DialFunc
	observer Observer
}

// WithEncoding sets the text encoding used by the string operations.
// The default is UTF-8.  Listeners ignore it: accepted sockets always
// use UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc != nil {
			o.encoding = enc
		}
	}
}

// WithDialer replaces the plain TCP dialer, e.g. to route the
// connection through a tunnel.
func WithDialer(fn DialFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.dial = fn
		}
	}
}

// WithObserver reports socket activity to obs.  A listener hands its
// observer down to every accepted Conn.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		encoding: UTF8,
		dial:     (&transport.TCPDialer{}).Dial,
		// A nil collector is a valid no-op observer.
		observer: (*metrics.Collector)(nil),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
