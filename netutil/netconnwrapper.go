package netutil

import (
	"net"
	"time"
)

// ConnWrapper wraps a net.Conn, refreshing read/write deadlines infrequently in trade of accuracy:
// the real timeout enforced can be anywhere between the specified value and double it
type ConnWrapper struct {
	conn            net.Conn
	readTimeoutMin  time.Duration
	readTimeoutMax  time.Duration
	readDeadline    time.Time
	writeTimeoutMin time.Duration
	writeTimeoutMax time.Duration
	writeDeadline   time.Time
}

// WrapConn creates a ConnWrapper for the given connection
func WrapConn(conn net.Conn, readTimeout time.Duration, writeTimeout time.Duration) *ConnWrapper {
	return &ConnWrapper{
		conn:            conn,
		readTimeoutMin:  readTimeout,
		readTimeoutMax:  readTimeout * 2,
		writeTimeoutMin: writeTimeout,
		writeTimeoutMax: writeTimeout * 2,
	}
}

// ReadDeadline returns the currently applied read deadline
func (cw *ConnWrapper) ReadDeadline() time.Time {
	return cw.readDeadline
}

func (cw *ConnWrapper) Read(p []byte) (n int, err error) {
	if cw.readTimeoutMin > 0 {
		now := time.Now()
		if cw.readDeadline.Sub(now) < cw.readTimeoutMin {
			nextDeadline := now.Add(cw.readTimeoutMax)
			if err := cw.conn.SetReadDeadline(nextDeadline); err != nil {
				return 0, err
			}
			cw.readDeadline = nextDeadline
		}
	}
	return cw.conn.Read(p)
}

// WriteDeadline returns the currently applied write deadline
func (cw *ConnWrapper) WriteDeadline() time.Time {
	return cw.writeDeadline
}

func (cw *ConnWrapper) Write(p []byte) (int, error) {
	if cw.writeTimeoutMin > 0 {
		now := time.Now()
		if cw.writeDeadline.Sub(now) < cw.writeTimeoutMin {
			nextDeadline := now.Add(cw.writeTimeoutMax)
			if err := cw.conn.SetWriteDeadline(nextDeadline); err != nil {
				return 0, err
			}
			cw.writeDeadline = nextDeadline
		}
	}
	return cw.conn.Write(p)
}

// Close closes the underlying connection
func (cw *ConnWrapper) Close() error {
	return cw.conn.Close()
}
