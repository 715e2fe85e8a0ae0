package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GOSOCK_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// values override.  Call it before flag parsing so flags win.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GOSOCK_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("GOSOCK_PORT"); v > 0 {
		cfg.LocalPort = v
	}
	if envBool("GOSOCK_LISTEN") {
		cfg.Listen = true
	}
	if v := os.Getenv("GOSOCK_SOURCE"); v != "" {
		cfg.ListenIP = v
	}
	if v := envInt("GOSOCK_BACKLOG"); v > 0 {
		cfg.Backlog = v
	}
	if envBool("GOSOCK_KEEP_OPEN") {
		cfg.KeepOpen = true
	}
	if v := envInt("GOSOCK_TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}

	// I/O
	if v := os.Getenv("GOSOCK_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := envInt("GOSOCK_BUFFER_SIZE"); v > 0 {
		cfg.BufferSize = v
	}
	if envBool("GOSOCK_ASYNC") {
		cfg.Async = true
	}

	// SSH tunnel
	if v := os.Getenv("GOSOCK_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("GOSOCK_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if v := os.Getenv("GOSOCK_SSH_PASS"); v != "" {
		cfg.SSHPass = v
	}
	if envBool("GOSOCK_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("GOSOCK_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("GOSOCK_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}
	if v := envInt("GOSOCK_KEEP_ALIVE"); v > 0 {
		cfg.KeepAliveInterval = v
	}

	// Output
	if v := envInt("GOSOCK_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
