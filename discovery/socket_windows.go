//go:build windows

package discovery

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func controlBroadcast(_, _ string, c syscall.RawConn) error {
	return setSockoptInt(c, windows.SO_BROADCAST)
}

func controlReuseAddr(_, _ string, c syscall.RawConn) error {
	return setSockoptInt(c, windows.SO_REUSEADDR)
}

func setSockoptInt(c syscall.RawConn, opt int) error {
	var opErr error
	if err := c.Control(func(fd uintptr) {
		opErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, opt, 1)
	}); err != nil {
		return err
	}
	return opErr
}
