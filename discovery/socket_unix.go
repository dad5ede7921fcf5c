//go:build !windows

package discovery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// controlBroadcast enables SO_BROADCAST before bind, so probes may target
// directed broadcast addresses.
func controlBroadcast(_, _ string, c syscall.RawConn) error {
	return setSockoptInt(c, unix.SO_BROADCAST)
}

// controlReuseAddr enables SO_REUSEADDR before bind.
func controlReuseAddr(_, _ string, c syscall.RawConn) error {
	return setSockoptInt(c, unix.SO_REUSEADDR)
}

func setSockoptInt(c syscall.RawConn, opt int) error {
	var opErr error
	if err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, opt, 1)
	}); err != nil {
		return err
	}
	return opErr
}
