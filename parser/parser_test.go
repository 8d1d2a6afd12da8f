package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/loglane/syslogcore/record"
	"github.com/stretchr/testify/assert"
)

func TestParsePRISequenceNumberPrefixTolerance(t *testing.T) {
	pri, rest, err := parsePRI("<189>8103: Apr 20 2025 10:45:20 PM.601 UTC : rest")
	assert.Nil(t, err)
	assert.Equal(t, 189, pri)
	assert.True(t, strings.HasPrefix(rest, "Apr 20 2025"))
}

func TestParsePRIMissing(t *testing.T) {
	_, _, err := parsePRI("no pri here")
	assert.NotNil(t, err)
	assert.Equal(t, errPriMissing, err.kind)
}

func TestParsePRIInvalidOutOfRange(t *testing.T) {
	_, _, err := parsePRI("<999>rest")
	assert.NotNil(t, err)
	assert.Equal(t, errPriInvalid, err.kind)
}

func TestParseStripsBOMFromMessage(t *testing.T) {
	p := New()
	rec := p.Parse([]byte("<34>1 1985-04-12T23:20:50.52Z host app - - - " + bom + "hello"))
	assert.Equal(t, "hello", rec.Message)
}

func TestParseNeverReturnsNil(t *testing.T) {
	p := New()
	for _, input := range []string{"", "<", "<>", "<0>", "garbage garbage garbage"} {
		rec := p.Parse([]byte(input))
		assert.NotNil(t, rec)
	}
}

// TestParsePRIRoundTripsEveryValue checks property 1: for every 0 <= pri <= 191, parsing
// "<pri>1 - - - - - -" must recover facility = pri >> 3 and severity = pri & 7.
func TestParsePRIRoundTripsEveryValue(t *testing.T) {
	p := New()
	for pri := 0; pri <= 191; pri++ {
		input := fmt.Sprintf("<%d>1 - - - - - -", pri)
		rec := p.Parse([]byte(input))
		assert.Equal(t, record.Facility(pri>>3), rec.Facility, "pri=%d", pri)
		assert.Equal(t, record.Severity(pri&7), rec.Severity, "pri=%d", pri)
	}
}
