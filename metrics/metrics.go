// Package metrics registers the Prometheus counters exported by the listener and decoder stages
//
// Unlike the ambient base.MetricFactory abstraction this corpus otherwise favors for per-output
// label currying, these are plain prometheus/client_golang counters registered once on the default
// registry: this core has a fixed, small set of pipeline-stage metrics with no per-client label
// explosion to manage.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListenerFramesTotal counts raw frames delivered by either transport
	ListenerFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syslogcore_listener_frames_total",
		Help: "Total number of raw frames received by the listener, by protocol.",
	}, []string{"protocol"})

	// ListenerErrorsTotal counts transport-level errors (excluding benign disconnects)
	ListenerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syslogcore_listener_errors_total",
		Help: "Total number of transport errors observed by the listener, by protocol.",
	}, []string{"protocol"})

	// ParserFallbackTotal counts RFC 5424 attempts that fell back to RFC 3164
	ParserFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syslogcore_parser_fallback_total",
		Help: "Total number of frames where RFC 5424 parsing failed and RFC 3164 fallback was used.",
	})

	// DecoderRecordsTotal counts records successfully emitted downstream by the decoder
	DecoderRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syslogcore_decoder_records_total",
		Help: "Total number of records emitted downstream by the decoder.",
	})
)
