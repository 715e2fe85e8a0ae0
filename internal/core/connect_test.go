package core

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"gosock/internal/capability"
	"gosock/internal/metrics"
	"gosock/internal/transport"
	"gosock/socket"
	"gosock/util"
)

// echoServer accepts one connection on a plain net listener and echoes
// it back.
func echoServer(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return
			}
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestConnectMode_Message(t *testing.T) {
	port := echoServer(t)
	out := &bytes.Buffer{}
	m := metrics.New()

	mode := &ConnectMode{
		Dialer:     &transport.TCPDialer{Timeout: 2 * time.Second},
		Capability: &capability.Exchange{Message: "hello"},
		Host:       "127.0.0.1",
		Port:       port,
		Encoding:   socket.UTF8,
		Observer:   m,
		Logger:     util.NewLogger(0),
		Stdout:     out,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "hello" {
		t.Errorf("output = %q, want hello", out.String())
	}
	if m.TotalBytesOut() != 5 || m.TotalBytesIn() != 5 {
		t.Errorf("bytes out/in = %d/%d, want 5/5", m.TotalBytesOut(), m.TotalBytesIn())
	}
	if m.ActiveConnections() != 0 {
		t.Errorf("active = %d after Run, want 0", m.ActiveConnections())
	}
}

func TestConnectMode_StdinAsync(t *testing.T) {
	port := echoServer(t)
	out := &bytes.Buffer{}

	mode := &ConnectMode{
		Dialer:     &transport.TCPDialer{Timeout: 2 * time.Second},
		Capability: &capability.Exchange{},
		Host:       "127.0.0.1",
		Port:       port,
		Async:      true,
		Logger:     util.NewLogger(0),
		Stdin:      strings.NewReader("a\nb\n"),
		Stdout:     out,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "a\nb\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestConnectMode_Refused(t *testing.T) {
	port := freePort(t)

	mode := &ConnectMode{
		Dialer:     &transport.TCPDialer{Timeout: time.Second},
		Capability: &capability.Exchange{Message: "x"},
		Host:       "127.0.0.1",
		Port:       port,
		Logger:     util.NewLogger(0),
		Stdout:     &bytes.Buffer{},
	}

	err := mode.Run(context.Background())
	if !errors.Is(err, socket.ErrConnection) {
		t.Fatalf("err = %v, want ErrConnection", err)
	}
}

func TestConnectMode_CancelWhileWaiting(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		// Accept and never reply.
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(3 * time.Second)
		}
	}()

	mode := &ConnectMode{
		Dialer:     &transport.TCPDialer{Timeout: time.Second},
		Capability: &capability.Exchange{Message: "anyone?"},
		Host:       "127.0.0.1",
		Port:       ln.Addr().(*net.TCPAddr).Port,
		Logger:     util.NewLogger(0),
		Stdout:     &bytes.Buffer{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- mode.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v, want nil after cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context ended")
	}
}

// freePort returns a loopback port that nothing is listening on.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
