// Package parser turns raw syslog frames into normalized record.Record values
//
// It implements both RFC 5424 and the tolerant legacy RFC 3164 grammar (including several vendor
// timestamp dialects), with RFC 5424 attempted first and RFC 3164 as the fallback. Parse never
// fails outright: the worst case is a Record holding only the recovered PRI fields and the
// original frame as Message.
package parser

import (
	"time"
	"unsafe"

	"github.com/loglane/syslogcore/metrics"
	"github.com/loglane/syslogcore/record"
)

// Field length limits, per RFC 5424 section 6
const (
	maxHostnameLen = 255
	maxAppNameLen  = 48
	maxProcIDLen   = 128
	maxMsgIDLen    = 32
	maxSDIDLen     = 32
)

// bom is the UTF-8 byte-order-mark RFC 5424 allows at the start of MSG
const bom = "\xEF\xBB\xBF"

// Clock returns the current time; overridden in tests to pin the "current year" default used by the
// classic RFC 3164 dialect which carries no year field
type Clock func() time.Time

// Parser parses syslog frames into record.Record values
type Parser struct {
	now Clock
}

// Option configures a Parser
type Option func(*Parser)

// WithClock overrides the clock used to default the RFC 3164 "current year"
func WithClock(clock Clock) Option {
	return func(p *Parser) { p.now = clock }
}

// New creates a Parser with the given options
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes one syslog frame, attempting RFC 5424 first and falling back to RFC 3164
//
// It never returns a nil Record and never panics on malformed input.
func (p *Parser) Parse(raw []byte) *record.Record {
	input := viewFrame(raw)

	rec, err := parseRFC5424(input)
	if err == nil {
		return rec
	}
	if !err.fatal() {
		// parseRFC5424 never returns a non-fatal error from the top level; defensive only
		return rec
	}
	metrics.ParserFallbackTotal.Inc()
	if err.kind == errTimestampInvalid {
		return rec // partial record already carries the abbreviated fallback per design
	}

	// pri_invalid / pri_missing / version_invalid: full re-parse under RFC 3164
	return p.parseRFC3164(input)
}

// viewFrame views raw as a string without copying it.
//
// This is safe only because every caller (listener.Frame producers) hands Parse a buffer it owns
// exclusively and never touches again: the Listener allocates a fresh []byte per frame and the
// Decoder passes it straight through, so no writer can mutate the bytes backing the returned string
// while a Record still references them.
func viewFrame(raw []byte) string {
	return unsafe.String(unsafe.SliceData(raw), len(raw))
}
