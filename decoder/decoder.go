// Package decoder couples a Listener's frame stream to the parser, producing a demand-gated stream
// of normalized record.Record values.
package decoder

import (
	"github.com/loglane/syslogcore/defs"
	"github.com/loglane/syslogcore/listener"
	"github.com/loglane/syslogcore/metrics"
	"github.com/loglane/syslogcore/parser"
	"github.com/loglane/syslogcore/pipeline"
	"github.com/loglane/syslogcore/record"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
)

// Decoder consumes listener.Frame values and emits parsed record.Record values
type Decoder struct {
	logger  logger.Logger
	records *pipeline.Dispatcher[*record.Record]
	stopped channels.Awaitable
}

// Option configures a Decoder
type Option func(*options)

type options struct {
	parserOpts []parser.Option
}

// WithParserOptions forwards options to the underlying parser.Parser
func WithParserOptions(opts ...parser.Option) Option {
	return func(o *options) { o.parserOpts = append(o.parserOpts, opts...) }
}

// Start subscribes to frames and begins decoding them in the background
func Start(frames *pipeline.Dispatcher[listener.Frame], opts ...Option) *Decoder {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Root().WithField(defs.LabelComponent, "Decoder")
	records := pipeline.NewDispatcher[*record.Record]()
	stopped := channels.NewSignalAwaitable()

	d := &Decoder{
		logger:  log,
		records: records,
		stopped: stopped,
	}

	go d.run(frames, parser.New(o.parserOpts...), stopped)

	return d
}

// Records returns the Dispatcher a Sink subscribes to for decoded records
func (d *Decoder) Records() *pipeline.Dispatcher[*record.Record] {
	return d.records
}

// Stopped signals once the upstream frame source has closed and all in-flight work is done
func (d *Decoder) Stopped() channels.Awaitable {
	return d.stopped
}

func (d *Decoder) run(frames *pipeline.Dispatcher[listener.Frame], p *parser.Parser, stopped *channels.SignalAwaitable) {
	defer d.records.Close()
	defer stopped.Signal()

	sub := frames.Subscribe()
	sub.Request(1)

	for frame := range sub.C() {
		rec := p.Parse(frame.Data)
		rec.RawIPAddress = frame.PeerAddr
		if !d.records.Emit(rec) {
			// downstream Dispatcher closed; stop consuming frames
			sub.Cancel()
			break
		}
		metrics.DecoderRecordsTotal.Inc()
		sub.Request(1)
	}
}
