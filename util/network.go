package util

import (
	"net"
	"strconv"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ValidPort reports whether port is usable as a destination port.
func ValidPort(port int) bool {
	return port >= 1 && port <= 65535
}
