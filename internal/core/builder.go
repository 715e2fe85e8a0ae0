package core

import (
	"fmt"
	"time"

	"gosock/config"
	"gosock/internal/capability"
	"gosock/internal/transport"
	"gosock/socket"
	"gosock/tunnel"
	"gosock/util"
)

// Build constructs the Mode selected by cfg.  obs receives socket
// activity; pass a nil *metrics.Collector to discard it.
func Build(cfg *config.Config, logger *util.Logger, obs socket.Observer) (Mode, error) {
	if cfg.Listen {
		return buildListen(cfg, logger, obs)
	}
	return buildConnect(cfg, logger, obs)
}

// ── mode builders ────────────────────────────────────────────────────

func buildConnect(cfg *config.Config, logger *util.Logger, obs socket.Observer) (Mode, error) {
	enc, err := socket.LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}

	return &ConnectMode{
		Dialer:     buildDialer(cfg, logger),
		Capability: &capability.Exchange{Message: cfg.Message},
		Host:       cfg.Host,
		Port:       cfg.Port,
		Encoding:   enc,
		Observer:   obs,
		Async:      cfg.Async,
		BufferSize: cfg.BufferSize,
		Logger:     logger.Named("connect"),
	}, nil
}

func buildListen(cfg *config.Config, logger *util.Logger, obs socket.Observer) (Mode, error) {
	if enc, err := socket.LookupEncoding(cfg.Encoding); err == nil && socket.EncodingName(enc) != "utf-8" {
		logger.Warn("--encoding %s is ignored in listen mode; accepted sockets use utf-8", cfg.Encoding)
	}

	return &ListenMode{
		IP:          cfg.ListenIP,
		Port:        cfg.LocalPort,
		Backlog:     cfg.Backlog,
		KeepOpen:    cfg.KeepOpen,
		MaxConns:    cfg.MaxConns,
		Async:       cfg.Async,
		BufferSize:  cfg.BufferSize,
		GracePeriod: config.DefaultGracePeriod,
		Capability:  &capability.Echo{},
		Observer:    obs,
		Logger:      logger.Named("listen"),
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the transport.Dialer for connect mode.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(sshConfig(cfg), logger)
	}
	return &transport.TCPDialer{
		Timeout:   cfg.Timeout,
		LocalPort: cfg.LocalPort,
	}
}

// sshConfig maps the tunnel fields of cfg onto a tunnel.SSHConfig.
func sshConfig(cfg *config.Config) *tunnel.SSHConfig {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultConnTimeout
	}
	return &tunnel.SSHConfig{
		User:          cfg.TunnelUser,
		Host:          cfg.TunnelHost,
		Port:          cfg.TunnelPort,
		KeyPath:       cfg.SSHKeyPath,
		Password:      cfg.SSHPass,
		PromptPass:    cfg.SSHPassword,
		UseAgent:      cfg.UseSSHAgent,
		StrictHostKey: cfg.StrictHostKey,
		KnownHosts:    cfg.KnownHostsPath,
		ConnTimeout:   timeout,
		KeepAlive:     time.Duration(cfg.KeepAliveInterval) * time.Second,
	}
}
