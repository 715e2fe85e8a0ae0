package core

import (
	"testing"
	"time"

	"gosock/config"
	"gosock/internal/capability"
	"gosock/internal/metrics"
	"gosock/internal/transport"
	"gosock/util"
)

func TestBuild_Connect(t *testing.T) {
	cfg := config.New()
	cfg.Host, cfg.Port, cfg.Message = "example.com", 80, "hi"

	mode, err := Build(cfg, util.NewLogger(0), metrics.New())
	if err != nil {
		t.Fatal(err)
	}
	cm, ok := mode.(*ConnectMode)
	if !ok {
		t.Fatalf("expected *ConnectMode, got %T", mode)
	}
	if _, ok := cm.Dialer.(*transport.TCPDialer); !ok {
		t.Errorf("dialer = %T, want *TCPDialer", cm.Dialer)
	}
	x, ok := cm.Capability.(*capability.Exchange)
	if !ok || x.Message != "hi" {
		t.Errorf("capability = %#v, want Exchange{hi}", cm.Capability)
	}
}

func TestBuild_Listen(t *testing.T) {
	cfg := config.New()
	cfg.Listen, cfg.LocalPort, cfg.Backlog = true, 8080, 3

	mode, err := Build(cfg, util.NewLogger(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	lm, ok := mode.(*ListenMode)
	if !ok {
		t.Fatalf("expected *ListenMode, got %T", mode)
	}
	if lm.Port != 8080 || lm.Backlog != 3 || lm.IP != "127.0.0.1" {
		t.Errorf("got port %d backlog %d ip %q", lm.Port, lm.Backlog, lm.IP)
	}
	if _, ok := lm.Capability.(*capability.Echo); !ok {
		t.Errorf("capability = %T, want *Echo", lm.Capability)
	}
	if lm.GracePeriod != config.DefaultGracePeriod {
		t.Errorf("grace period = %v, want %v", lm.GracePeriod, config.DefaultGracePeriod)
	}
}

func TestBuild_Tunnel(t *testing.T) {
	cfg := config.New()
	cfg.Host, cfg.Port = "db-internal", 5432
	cfg.TunnelEnabled, cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort = true, "admin", "bastion", 2222

	mode, err := Build(cfg, util.NewLogger(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	cm := mode.(*ConnectMode)
	if _, ok := cm.Dialer.(*transport.SSHDialer); !ok {
		t.Errorf("dialer = %T, want *SSHDialer", cm.Dialer)
	}
}

func TestBuild_BadEncoding(t *testing.T) {
	cfg := config.New()
	cfg.Host, cfg.Port, cfg.Encoding = "example.com", 80, "klingon"

	if _, err := Build(cfg, util.NewLogger(0), nil); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestSSHConfig_Defaults(t *testing.T) {
	cfg := config.New()
	cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort = "u", "gw", 22
	cfg.SSHPass, cfg.KeepAliveInterval = "pw", 30

	sc := sshConfig(cfg)
	if sc.ConnTimeout != config.DefaultConnTimeout {
		t.Errorf("ConnTimeout = %v", sc.ConnTimeout)
	}
	if sc.KeepAlive != 30*time.Second {
		t.Errorf("KeepAlive = %v", sc.KeepAlive)
	}
	if sc.Password != "pw" {
		t.Errorf("Password = %q", sc.Password)
	}
}
