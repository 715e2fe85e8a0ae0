package socket

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// UTF8 is the default text encoding.
var UTF8 encoding.Encoding = unicode.UTF8

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "utf-16le", "windows-1252" or "shift_jis".  An empty name selects
// UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidArgument, name)
	}
	return enc, nil
}

// EncodingName returns the canonical label of enc.  Encodings outside
// the WHATWG index fall back to their own String form, e.g. "ISO 8859-1".
func EncodingName(enc encoding.Encoding) string {
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	if s, ok := enc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", enc)
}

func encodeString(enc encoding.Encoding, s string) ([]byte, error) {
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: encode as %s: %v", ErrInvalidArgument, EncodingName(enc), err)
	}
	return b, nil
}

// decodeString decodes p and strips trailing NUL padding.
func decodeString(enc encoding.Encoding, p []byte) (string, error) {
	b, err := enc.NewDecoder().Bytes(p)
	if err != nil {
		return "", fmt.Errorf("%w: decode as %s: %v", ErrInvalidArgument, EncodingName(enc), err)
	}
	return strings.TrimRight(string(b), "\x00"), nil
}
