package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv_Host(t *testing.T) {
	t.Setenv("GOSOCK_HOST", "test.example.com")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Host != "test.example.com" {
		t.Errorf("Host = %q, want %q", cfg.Host, "test.example.com")
	}
}

func TestLoadFromEnv_Port(t *testing.T) {
	t.Setenv("GOSOCK_PORT", "8080")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.LocalPort != 8080 {
		t.Errorf("LocalPort = %d, want 8080", cfg.LocalPort)
	}
}

func TestLoadFromEnv_Booleans(t *testing.T) {
	tests := []struct {
		key    string
		values []string
		get    func(*Config) bool
	}{
		{"GOSOCK_LISTEN", []string{"1", "true", "yes", "TRUE", "Yes"}, func(c *Config) bool { return c.Listen }},
		{"GOSOCK_KEEP_OPEN", []string{"1"}, func(c *Config) bool { return c.KeepOpen }},
		{"GOSOCK_ASYNC", []string{"true"}, func(c *Config) bool { return c.Async }},
		{"GOSOCK_SSH_AGENT", []string{"yes"}, func(c *Config) bool { return c.UseSSHAgent }},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			t.Run(tt.key+"="+v, func(t *testing.T) {
				t.Setenv(tt.key, v)
				cfg := &Config{}
				LoadFromEnv(cfg)
				if !tt.get(cfg) {
					t.Errorf("%s=%s did not set the field", tt.key, v)
				}
			})
		}
	}
}

func TestLoadFromEnv_Socket(t *testing.T) {
	t.Setenv("GOSOCK_SOURCE", "0.0.0.0")
	t.Setenv("GOSOCK_BACKLOG", "64")
	t.Setenv("GOSOCK_ENCODING", "utf-16le")
	t.Setenv("GOSOCK_BUFFER_SIZE", "4096")
	t.Setenv("GOSOCK_TIMEOUT", "10")

	cfg := New()
	LoadFromEnv(cfg)

	if cfg.ListenIP != "0.0.0.0" {
		t.Errorf("ListenIP = %q", cfg.ListenIP)
	}
	if cfg.Backlog != 64 {
		t.Errorf("Backlog = %d", cfg.Backlog)
	}
	if cfg.Encoding != "utf-16le" {
		t.Errorf("Encoding = %q", cfg.Encoding)
	}
	if cfg.BufferSize != 4096 {
		t.Errorf("BufferSize = %d", cfg.BufferSize)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
}

func TestLoadFromEnv_SSHFields(t *testing.T) {
	t.Setenv("GOSOCK_TUNNEL", "admin@bastion:2222")
	t.Setenv("GOSOCK_SSH_KEY", "/home/user/.ssh/id_ed25519")
	t.Setenv("GOSOCK_SSH_PASS", "hunter2")
	t.Setenv("GOSOCK_STRICT_HOSTKEY", "yes")
	t.Setenv("GOSOCK_KNOWN_HOSTS", "/custom/known_hosts")
	t.Setenv("GOSOCK_KEEP_ALIVE", "15")

	cfg := &Config{}
	LoadFromEnv(cfg)

	if cfg.TunnelSpec != "admin@bastion:2222" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
	if cfg.SSHKeyPath != "/home/user/.ssh/id_ed25519" {
		t.Errorf("SSHKeyPath = %q", cfg.SSHKeyPath)
	}
	if cfg.SSHPass != "hunter2" {
		t.Errorf("SSHPass = %q", cfg.SSHPass)
	}
	if !cfg.StrictHostKey {
		t.Error("StrictHostKey should be true")
	}
	if cfg.KnownHostsPath != "/custom/known_hosts" {
		t.Errorf("KnownHostsPath = %q", cfg.KnownHostsPath)
	}
	if cfg.KeepAliveInterval != 15 {
		t.Errorf("KeepAliveInterval = %d", cfg.KeepAliveInterval)
	}
}

func TestLoadFromEnv_NoOverrideWhenEmpty(t *testing.T) {
	os.Clearenv()

	cfg := &Config{Host: "original", LocalPort: 1234, Encoding: "utf-8"}
	LoadFromEnv(cfg)

	if cfg.Host != "original" {
		t.Errorf("Host was overridden: %q", cfg.Host)
	}
	if cfg.LocalPort != 1234 {
		t.Errorf("LocalPort was overridden: %d", cfg.LocalPort)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("Encoding was overridden: %q", cfg.Encoding)
	}
}

func TestLoadFromEnv_InvalidIntIgnored(t *testing.T) {
	t.Setenv("GOSOCK_PORT", "not-a-number")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.LocalPort != 0 {
		t.Errorf("LocalPort should be 0 for invalid input, got %d", cfg.LocalPort)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	t.Setenv("GOSOCK_VERBOSE", "3")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", cfg.Verbose)
	}
}
