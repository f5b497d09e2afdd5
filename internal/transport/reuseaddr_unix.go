//go:build !windows

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setReuseAddr sets SO_REUSEADDR on the multicast socket before bind
// so this resolver can coexist with other mDNS listeners on the same
// host, as long as each of those listeners also binds with
// address-reuse. net.ListenMulticastUDP has no hook for this, hence
// the raw syscall via golang.org/x/sys/unix.
func setReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
