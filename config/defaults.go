package config

import (
	"time"

	"gosock/socket"
)

// ── Default values ───────────────────────────────────────────────────
//
// Socket defaults come from the socket package so the CLI and the
// library never disagree.

const (
	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultListenIP is the address listen mode binds when -s is absent.
	DefaultListenIP = socket.DefaultListenIP

	// DefaultBacklog is the pending-connection queue depth.
	DefaultBacklog = socket.DefaultBacklog

	// DefaultBufferSize is the receive buffer for string reads.
	DefaultBufferSize = socket.DefaultBufferSize

	// DefaultEncoding is the text encoding label.
	DefaultEncoding = "utf-8"

	// DefaultConnTimeout is the SSH gateway connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultGracePeriod is how long keep-open listen mode waits for
	// in-flight peers after the context ends.
	DefaultGracePeriod = 5 * time.Second
)
