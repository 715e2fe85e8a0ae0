// Package errors provides the error taxonomy shared by gosock packages.
//
// Every socket failure is a *NetworkError whose Kind is one of the
// sentinel kinds below.  The kind and the underlying OS error are both
// reachable through errors.Is, so callers can branch on "what failed"
// (ErrBind, ErrTransport, ...) or on the exact cause (EADDRINUSE, ...).
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ── Kinds ────────────────────────────────────────────────────────────

var (
	ErrAddressFormat = errors.New("invalid address format")
	ErrConnection    = errors.New("connection failed")
	ErrBind          = errors.New("bind failed")
	ErrAccept        = errors.New("accept failed")
	ErrTransport     = errors.New("transport failure")
	ErrCanceled      = errors.New("operation canceled")
	ErrClosed        = errors.New("socket is closed")

	// ErrInvalidArgument reports a buffer offset/count or size that
	// does not fit the supplied buffer.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ── Tunnel sentinels ─────────────────────────────────────────────────

var (
	ErrTunnelClosed = errors.New("tunnel is closed")
	ErrNotConnected = errors.New("not connected")
	ErrAuthFailed   = errors.New("authentication failed")
)

var kinds = []error{
	ErrAddressFormat, ErrConnection, ErrBind, ErrAccept,
	ErrTransport, ErrCanceled, ErrClosed, ErrInvalidArgument,
}

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a socket operation.
type NetworkError struct {
	Kind      error  // one of the Err* kinds
	Op        string // "dial", "listen", "accept", "read", "write", "close"
	Addr      string // network address involved (may be empty)
	Err       error  // underlying error (may be nil)
	Retryable bool   // whether the caller could reasonably retry
}

func (e *NetworkError) Error() string {
	s := e.Op
	if e.Addr != "" {
		s += " " + e.Addr
	}
	switch {
	case e.Err != nil:
		s += ": " + e.Err.Error()
	case e.Kind != nil:
		s += ": " + e.Kind.Error()
	}
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

// Unwrap exposes both the kind and the cause.
func (e *NetworkError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// SSHError represents an SSH-specific failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "dial"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError of the given kind, detecting
// retryability from the underlying error.
func Wrap(kind error, op, addr string, err error) *NetworkError {
	return &NetworkError{
		Kind:      kind,
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// Closed returns the error reported by operations on a disposed socket.
func Closed(op, addr string) *NetworkError {
	return &NetworkError{Kind: ErrClosed, Op: op, Addr: addr}
}

// Canceled wraps a context error as a cancellation.
func Canceled(op, addr string, cause error) *NetworkError {
	if cause == nil {
		cause = context.Canceled
	}
	return &NetworkError{Kind: ErrCanceled, Op: op, Addr: addr, Err: cause}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// KindOf returns the kind sentinel carried by err, or nil when err is
// not a classified socket error.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if errors.As(err, &ne) && ne.Kind != nil {
		return ne.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return classifyRetryable(err)
}

// IsTimeout reports whether err is a transport-level deadline expiry.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
