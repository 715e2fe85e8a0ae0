//go:build !linux && !darwin && !windows

package socket

import (
	"errors"
	"fmt"
	"syscall"
)

// pendingBytes has no portable query here.
func pendingBytes(syscall.Conn) (int, error) {
	return 0, fmt.Errorf("pending byte count: %w", errors.ErrUnsupported)
}
