// Package listener owns the UDP/TCP network socket(s) and produces a demand-gated stream of raw
// syslog Frames for a Decoder (or test code) to consume.
package listener

import (
	"github.com/loglane/syslogcore/defs"
	"github.com/loglane/syslogcore/pipeline"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
)

// Listener owns one bound socket (UDP) or acceptor (TCP) and the Dispatcher feeding frames
// downstream
type Listener struct {
	logger      logger.Logger
	protocol    Protocol
	addr        string
	frames      *pipeline.Dispatcher[Frame]
	stopped     channels.Awaitable
	closeFn     func()
	clientCount func() int
}

// Start binds cfg's socket and begins producing frames in the background
func Start(cfg Config) (*Listener, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := logger.Root().WithFields(logger.Fields{
		defs.LabelComponent: "Listener",
		defs.LabelProtocol:  string(cfg.Protocol),
	})

	frames := pipeline.NewDispatcher[Frame]()

	switch cfg.Protocol {
	case ProtocolUDP:
		return startUDP(log, cfg, frames)
	case ProtocolTCP:
		return startTCP(log, cfg, frames)
	default:
		return nil, &unsupportedProtocolError{protocol: cfg.Protocol}
	}
}

// Addr returns the actually-bound local address, including the OS-assigned port if Config.Port was 0
func (l *Listener) Addr() string {
	return l.addr
}

// Frames returns the Dispatcher a Decoder (or test) subscribes to for incoming frames
func (l *Listener) Frames() *pipeline.Dispatcher[Frame] {
	return l.frames
}

// Stopped signals once the listener and every connection goroutine it spawned have exited
func (l *Listener) Stopped() channels.Awaitable {
	return l.stopped
}

// ClientCount reports the number of live client connections currently registered. It is always 0
// for a UDP listener, which has no per-client registry.
func (l *Listener) ClientCount() int {
	if l.clientCount == nil {
		return 0
	}
	return l.clientCount()
}

// Close closes the listening socket and every live client connection, then blocks until all
// background goroutines have exited
func (l *Listener) Close() {
	l.closeFn()
	l.stopped.WaitForever()
}

type unsupportedProtocolError struct {
	protocol Protocol
}

func (e *unsupportedProtocolError) Error() string {
	return "unsupported protocol: " + string(e.protocol)
}
