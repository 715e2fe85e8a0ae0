// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"gosock/config"
	"gosock/internal/core"
	"gosock/internal/metrics"
	"gosock/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gosock/cmd.version=1.1.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the selected gosock mode.
func Execute(ctx context.Context, args []string) error {
	cfg := config.New()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("gosock", flag.ContinueOnError)

	// ── listen ───────────────────────────────────────────────────
	fs.BoolVarP(&cfg.Listen, "listen", "l", cfg.Listen, "Listen mode (echo server)")
	fs.IntVarP(&cfg.LocalPort, "port", "p", cfg.LocalPort, "Listen port, or source port when connecting")
	fs.StringVarP(&cfg.ListenIP, "source", "s", cfg.ListenIP, "IPv4 address to listen on")
	fs.IntVarP(&cfg.Backlog, "backlog", "b", cfg.Backlog, "Pending-connection queue depth")
	fs.BoolVarP(&cfg.KeepOpen, "keep-open", "k", cfg.KeepOpen, "Accept multiple connections (with -l)")
	fs.IntVarP(&cfg.MaxConns, "max-conns", "n", cfg.MaxConns, "Stop after this many connections (with -k)")

	// ── connect ──────────────────────────────────────────────────
	fs.StringVarP(&cfg.Message, "message", "m", cfg.Message, "Send this once instead of reading stdin")

	timeoutSec := int(cfg.Timeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Connect timeout in seconds")

	// ── socket I/O ───────────────────────────────────────────────
	fs.BoolVar(&cfg.Async, "async", cfg.Async, "Use the asynchronous socket calls")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Text encoding (WHATWG label)")
	fs.IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "Receive buffer size in bytes")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Connect through SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")
	fs.IntVar(&cfg.KeepAliveInterval, "keep-alive", cfg.KeepAliveInterval, "SSH keepalive interval in seconds (0 = off)")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate the configuration and exit")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print socket counters as JSON on exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("gosock %s\n", version)
		return nil
	}

	cfg.Timeout = time.Duration(timeoutSec) * time.Second

	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	var collector *metrics.Collector
	if cfg.Stats {
		collector = metrics.New()
	}

	mode, err := core.Build(cfg, logger, collector)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		fmt.Fprintf(os.Stderr, "dry run: %s\n", describe(cfg))
		return nil
	}

	err = mode.Run(ctx)
	if collector != nil {
		fmt.Fprintln(os.Stderr, collector.JSON())
	}
	return err
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Listen {
		if len(remaining) > 0 {
			return fmt.Errorf("unexpected arguments in listen mode: %v", remaining)
		}
		return nil
	}

	switch len(remaining) {
	case 0:
		if cfg.Host == "" {
			return fmt.Errorf("hostname required (use --help for usage)")
		}
		return fmt.Errorf("port required")
	case 1:
		return fmt.Errorf("port required")
	case 2:
	default:
		return fmt.Errorf("too many arguments: %v", remaining)
	}

	port, err := config.ParsePort(remaining[1])
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Host = remaining[0]
	cfg.Port = port
	return nil
}

func describe(cfg *config.Config) string {
	if cfg.Listen {
		s := fmt.Sprintf("listen on %s:%d backlog %d", cfg.ListenIP, cfg.LocalPort, cfg.Backlog)
		if cfg.KeepOpen {
			s += ", keep open"
			if cfg.MaxConns > 0 {
				s += fmt.Sprintf(" for %d connections", cfg.MaxConns)
			}
		}
		return s
	}
	s := fmt.Sprintf("connect to %s (%s)", util.FormatAddr(cfg.Host, cfg.Port), cfg.Encoding)
	if cfg.TunnelEnabled {
		s += fmt.Sprintf(" via %s@%s:%d", cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort)
	}
	return s
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `gosock v%s

IPv4 TCP socket tool: a one-shot echo server and a request/reply client.

Usage:
  gosock [options] <host> <port>              Connect
  gosock -l -p <port> [options]               Listen and echo
  gosock -T user@gateway <host> <port>        Connect through SSH

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  gosock -m ping 127.0.0.1 9000               Send once, print the reply
  gosock -l -p 9000 -k -b 1                   Echo server, backlog 1
  gosock --async --encoding utf-16le host 7   Async client, UTF-16LE text
  echo hello | gosock host.example.com 9000   One exchange per input line
`)
}
