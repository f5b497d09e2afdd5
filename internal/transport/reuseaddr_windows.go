//go:build windows

package transport

import "syscall"

// setReuseAddr is a no-op on Windows: SO_REUSEADDR has different
// (unsafe, silent-hijack) semantics there, so multiple mDNS listeners
// sharing one host on Windows is not supported by this resolver.
func setReuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
