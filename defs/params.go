package defs

import (
	"time"
)

var (
	// ListenerDefaultPort is the conventional syslogcore UDP/TCP port
	//
	// Neither listener.Start nor config.LoadFile applies it: a Config.Port of 0 binds an OS-assigned
	// port, so a caller that wants this port sets it explicitly.
	ListenerDefaultPort = 5544

	// ListenerLineBufferSize is a 16 KiB buffer size that the listeners do not use: each UDP socket
	// and each TCP connection allocates one read buffer of Config.MaxFrame bytes up front
	ListenerLineBufferSize = 16 * 1024

	// ListenerMaxFrameBytes is the default largest single frame accepted before truncation
	ListenerMaxFrameBytes = 1 * 1024 * 1024

	// ListenerAcceptRetryInterval is how long to sleep after a transient TCP accept error
	ListenerAcceptRetryInterval = 100 * time.Millisecond

	// ListenerShutdownTimeout is a shutdown bound that Listener.Close does not apply: Close waits
	// without a time limit for every background goroutine to exit
	ListenerShutdownTimeout = 5 * time.Second

	// IntermediateChannelTimeout is the read timeout applied to each TCP client connection
	//
	// A client that sends nothing for between this value and twice it gets a read timeout; the
	// listener logs it as a read error and closes that client.
	IntermediateChannelTimeout = 60 * time.Second
)

// For testing
const (
	TestReadTimeout = 5 * time.Second
)
