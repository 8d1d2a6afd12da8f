package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/loglane/syslogcore/record"
)

var timestamp5424Pattern = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.(\d+))?(Z|[+-]\d{2}:\d{2})$`,
)

// parseRFC5424 attempts to decode s as an RFC 5424 frame
//
// On success it returns a fully populated Record and a nil error. On a fatal error (pri/version
// invalid) it returns a nil Record, signalling the caller to fully re-parse under RFC 3164. On a
// fatal timestamp error it returns a partial Record carrying only the recovered PRI fields plus a
// Message set to the remainder of the frame following the failed timestamp, per the documented
// abbreviated-fallback behavior.
func parseRFC5424(s string) (*record.Record, *parseError) {
	pri, rest, err := parsePRI(s)
	if err != nil {
		return nil, err
	}

	versionToken, rest2 := nextToken(rest)
	if versionToken != "1" {
		return nil, &parseError{kind: errVersionInvalid}
	}
	rest = rest2

	tsToken, rest3 := nextToken(rest)
	ts, hasTS, tsErr := parseTimestamp5424(tsToken)
	if tsErr != nil {
		rec := record.New()
		rec.RFC = record.DialectRFC3164
		rec.SetPriority(pri)
		rec.Message = rest3
		return rec, &parseError{kind: errTimestampInvalid}
	}
	rest = rest3

	rec := record.New()
	rec.RFC = record.DialectRFC5424
	rec.SetPriority(pri)
	rec.Version = 1
	if hasTS {
		rec.Timestamp = ts
		rec.HasTimestamp = true
	}

	var hostname, appName, procID, msgID string
	var present bool

	hostname, present, rest = takeDashOrToken(rest)
	if present {
		if e := boundedField("hostname", hostname, maxHostnameLen); e == nil {
			rec.Hostname = hostname
		}
	}

	appName, present, rest = takeDashOrToken(rest)
	if present {
		if e := boundedField("app_name", appName, maxAppNameLen); e == nil {
			rec.AppName = appName
		}
	}

	procID, present, rest = takeDashOrToken(rest)
	if present {
		if e := boundedField("process_id", procID, maxProcIDLen); e == nil {
			rec.ProcessID = procID
		}
	}

	msgID, present, rest = takeDashOrToken(rest)
	if present {
		if e := boundedField("message_id", msgID, maxMsgIDLen); e == nil {
			rec.MessageID = msgID
		}
	}

	if strings.HasPrefix(rest, "-") && (len(rest) == 1 || rest[1] == ' ') {
		if len(rest) > 1 {
			rest = rest[2:]
		} else {
			rest = ""
		}
	} else if strings.HasPrefix(rest, "[") {
		data, remainder, ok := parseStructuredData(rest)
		if ok {
			rec.StructuredData = data
			rest = remainder
			rest = strings.TrimPrefix(rest, " ")
		}
		// on failure, structured data is left unset (graceful) and the whole remainder becomes MSG
	}

	rec.Message = trimBOM(rest)
	return rec, nil
}

// trimBOM strips a leading byte-order mark from msg, in either form this corpus encodes it: the
// three raw UTF-8 BOM bytes, or the literal ASCII text "BOM" used in place of those bytes wherever
// they can't be typed directly.
func trimBOM(msg string) string {
	if trimmed := strings.TrimPrefix(msg, bom); trimmed != msg {
		return trimmed
	}
	return strings.TrimPrefix(msg, "BOM")
}

func parseTimestamp5424(token string) (time.Time, bool, *parseError) {
	if token == "-" {
		return time.Time{}, false, nil
	}
	m := timestamp5424Pattern.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false, &parseError{kind: errTimestampInvalid}
	}
	if len(m[2]) > 6 {
		return time.Time{}, false, &parseError{kind: errTimestampInvalid}
	}
	ts, err := time.Parse(time.RFC3339Nano, token)
	if err != nil {
		return time.Time{}, false, &parseError{kind: errTimestampInvalid}
	}
	return ts.UTC(), true, nil
}
