// Package config defines the runtime configuration for the gosock CLI
// and the helpers that parse its positional arguments.
package config

import (
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"time"

	sockerr "gosock/internal/errors"
	"gosock/socket"
)

// Config holds every tuneable for a single gosock run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host      string
	Port      int // destination port (connect mode)
	LocalPort int // -p: listen port, or source port in connect mode
	Listen    bool
	ListenIP  string
	Backlog   int
	KeepOpen  bool
	MaxConns  int // stop after this many accepted peers (0 = unlimited)
	Timeout   time.Duration

	// ── I/O ──────────────────────────────────────────────────────────
	Encoding   string
	BufferSize int
	Message    string // send this once instead of reading stdin
	Async      bool   // use the Future-returning socket calls

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec        string // raw user@host[:port] from -T
	TunnelEnabled     bool
	TunnelUser        string
	TunnelHost        string
	TunnelPort        int
	SSHKeyPath        string
	SSHPassword       bool   // true → prompt interactively
	SSHPass           string // non-interactive password, env only
	UseSSHAgent       bool
	StrictHostKey     bool
	KnownHostsPath    string
	KeepAliveInterval int // seconds

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	DryRun  bool
	Stats   bool
}

// New returns a Config populated with the defaults from defaults.go.
func New() *Config {
	return &Config{
		ListenIP:   DefaultListenIP,
		Backlog:    DefaultBacklog,
		Encoding:   DefaultEncoding,
		BufferSize: DefaultBufferSize,
	}
}

// ── Argument helpers ─────────────────────────────────────────────────

// ParsePort converts a decimal port number and checks it is 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q, expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Failures are *errors.ConfigError values carrying a hint.
func (c *Config) Validate() error {
	if c.Listen {
		if err := c.validateListen(); err != nil {
			return err
		}
	} else if err := c.validateConnect(); err != nil {
		return err
	}

	if _, err := socket.LookupEncoding(c.Encoding); err != nil {
		return &sockerr.ConfigError{
			Field:   "encoding",
			Value:   c.Encoding,
			Message: "unknown encoding",
			Hint:    "use a WHATWG label such as utf-8, utf-16le or windows-1252",
		}
	}
	if c.BufferSize < 0 {
		return &sockerr.ConfigError{
			Field:   "buffer-size",
			Value:   c.BufferSize,
			Message: "must not be negative",
			Hint:    fmt.Sprintf("0 selects the default of %d bytes", DefaultBufferSize),
		}
	}
	if c.Timeout < 0 {
		return &sockerr.ConfigError{
			Field:   "timeout",
			Value:   c.Timeout,
			Message: "must not be negative",
		}
	}
	if c.TunnelEnabled && c.TunnelHost == "" {
		return &sockerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: "tunnel host is required",
			Hint:    "use -T [user@]host[:port]",
		}
	}
	return nil
}

func (c *Config) validateListen() error {
	if c.LocalPort < 1 || c.LocalPort > 65535 {
		return &sockerr.ConfigError{
			Field:   "port",
			Value:   c.LocalPort,
			Message: "listen mode requires a port in 1-65535",
			Hint:    "gosock -l -p 9000",
		}
	}
	if ip, err := netip.ParseAddr(c.ListenIP); err != nil || !ip.Unmap().Is4() {
		return &sockerr.ConfigError{
			Field:   "source",
			Value:   c.ListenIP,
			Message: "not an IPv4 address",
			Hint:    "use a dotted quad such as 127.0.0.1 or 0.0.0.0",
		}
	}
	if c.Backlog < 0 {
		return &sockerr.ConfigError{
			Field:   "backlog",
			Value:   c.Backlog,
			Message: "must not be negative",
			Hint:    fmt.Sprintf("0 selects the default of %d", DefaultBacklog),
		}
	}
	if c.MaxConns < 0 {
		return &sockerr.ConfigError{
			Field:   "max-conns",
			Value:   c.MaxConns,
			Message: "must not be negative",
		}
	}
	if c.MaxConns > 0 && !c.KeepOpen {
		return &sockerr.ConfigError{
			Field:   "max-conns",
			Value:   c.MaxConns,
			Message: "only meaningful when accepting more than one peer",
			Hint:    "add -k",
		}
	}
	if c.TunnelEnabled {
		return &sockerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: "listen mode cannot run through an SSH tunnel",
			Hint:    "drop -T, or run gosock -l on the gateway itself",
		}
	}
	if c.Message != "" {
		return &sockerr.ConfigError{
			Field:   "message",
			Value:   c.Message,
			Message: "only used in connect mode",
		}
	}
	return nil
}

func (c *Config) validateConnect() error {
	if c.Host == "" {
		return &sockerr.ConfigError{
			Field:   "host",
			Message: "hostname is required",
			Hint:    "gosock [options] <host> <port>",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &sockerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "destination port must be in 1-65535",
		}
	}
	if c.LocalPort < 0 || c.LocalPort > 65535 {
		return &sockerr.ConfigError{
			Field:   "port",
			Value:   c.LocalPort,
			Message: "source port must be in 0-65535",
		}
	}
	if c.KeepOpen || c.MaxConns != 0 {
		return &sockerr.ConfigError{
			Field:   "keep-open",
			Message: "-k and -n only apply to listen mode",
			Hint:    "add -l -p <port>",
		}
	}
	return nil
}
