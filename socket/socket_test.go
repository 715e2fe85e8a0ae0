package socket

import (
	"context"
	"errors"
	"testing"
	"time"
)

// pair returns a connected client/server pair on loopback.  Both are
// closed at cleanup; tests that close them early ignore the second
// close's ErrClosed.
func pair(t *testing.T, opts ...Option) (client, server *Conn) {
	t.Helper()

	ln, err := ListenPort(0, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	accepted := ln.AcceptAsync(context.Background())

	client, err = Dial(context.Background(), "127.0.0.1", int(ln.Addr().Port()), opts...)
	if err != nil {
		t.Fatal(err)
	}
	server, err = accepted.Await()
	if err != nil {
		client.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

// waitReadable polls AnythingToReceive until it reports data.
func waitReadable(t *testing.T, c *Conn) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ok, err := c.AnythingToReceive()
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no data became readable")
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want kind %v", err, kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("KindOf(%v) = %v, want %v", err, got, kind)
	}
}
