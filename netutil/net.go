// Package netutil collects small socket helpers shared by the UDP and TCP listeners: error
// classification, read-buffer tuning, and a deadline-refreshing connection wrapper.
package netutil

import (
	"errors"
	"io"
	"net"
	"strings"

	"golang.org/x/sys/unix"
)

// IsNetworkClosed reports whether err indicates the connection/socket was closed
func IsNetworkClosed(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}

// IsNetworkTimeout reports whether err is a network timeout (and thus transient)
func IsNetworkTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// TrySetTCPReadBuffer attempts to set the read buffer of conn within [min, max], halving on
// "no buffer space available" until it fits
func TrySetTCPReadBuffer(conn *net.TCPConn, max int, min int) (int, error) {
	var err error
	val := max
	for val >= min {
		err = conn.SetReadBuffer(val)
		if err == nil {
			return val, nil
		}
		if !strings.HasSuffix(err.Error(), "setsockopt: no buffer space available") {
			return -1, err
		}
		val /= 2
	}
	if val != min {
		err = conn.SetReadBuffer(min)
		if err == nil {
			return min, nil
		}
	}
	return -1, err
}

// TrySetUDPReadBuffer sets SO_RCVBUF on a UDP socket directly through the raw syscall connection,
// since net.UDPConn.SetReadBuffer silently clamps rather than reporting how much was granted
func TrySetUDPReadBuffer(conn *net.UDPConn, bytes int) (int, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return -1, err
	}
	var setErr error
	var granted int
	ctrlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, bytes)
		if setErr == nil {
			granted, setErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF)
		}
	})
	if ctrlErr != nil {
		return -1, ctrlErr
	}
	if setErr != nil {
		return -1, setErr
	}
	return granted, nil
}
