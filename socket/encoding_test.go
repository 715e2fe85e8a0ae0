package socket

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", "utf-8"},
		{"utf-8", "utf-8"},
		{"UTF8", "utf-8"},
		{"utf-16le", "utf-16le"},
		{"latin1", "windows-1252"},
		{"shift_jis", "shift_jis"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			enc, err := LookupEncoding(tt.label)
			if err != nil {
				t.Fatal(err)
			}
			if got := EncodingName(enc); got != tt.want {
				t.Errorf("EncodingName = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := LookupEncoding("klingon"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown label err = %v, want ErrInvalidArgument", err)
	}
}

func TestConn_UTF16RoundTrip(t *testing.T) {
	enc, err := LookupEncoding("utf-16le")
	if err != nil {
		t.Fatal(err)
	}
	client, server := pair(t, WithEncoding(enc))

	n, err := client.Send("hé")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Send wrote %d bytes, want 4", n)
	}

	// Accepted sockets decode UTF-8; read the raw bytes instead.
	buf := make([]byte, 8)
	waitReadable(t, server)
	got, err := server.Receive(buf, 0, len(buf))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'h', 0, 0xe9, 0}
	if string(buf[:got]) != string(want) {
		t.Errorf("wire bytes = %x, want %x", buf[:got], want)
	}

	if _, err := server.SendBytes(want, 0, len(want)); err != nil {
		t.Fatal(err)
	}
	s, err := client.ReceiveStringAsync(context.Background(), 0).Await()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hé" {
		t.Errorf("decoded %q, want hé", s)
	}
	if EncodingName(client.Encoding()) != "utf-16le" {
		t.Errorf("client encoding = %s", EncodingName(client.Encoding()))
	}
	if server.Encoding() != unicode.UTF8 {
		t.Error("accepted socket is not UTF-8")
	}
}

func TestSend_Unencodable(t *testing.T) {
	enc, err := LookupEncoding("windows-1252")
	if err != nil {
		t.Fatal(err)
	}
	client, _ := pair(t, WithEncoding(enc))

	if _, err := client.Send("snowman ☃"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

// Encodings the WHATWG index cannot name keep a readable label.
func TestEncodingName_OutsideIndex(t *testing.T) {
	if got := EncodingName(charmap.ISO8859_1); got != "ISO 8859-1" {
		t.Errorf("EncodingName = %q, want ISO 8859-1", got)
	}

	client, _ := pair(t, WithEncoding(charmap.ISO8859_1))
	_, err := client.Send("日本")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "encode as ISO 8859-1") {
		t.Errorf("err = %q, want the charmap name", err)
	}
}
