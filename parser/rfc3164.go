package parser

import (
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/loglane/syslogcore/record"
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March, "Apr": time.April,
	"May": time.May, "Jun": time.June, "Jul": time.July, "Aug": time.August,
	"Sep": time.September, "Oct": time.October, "Nov": time.November, "Dec": time.December,
}

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

var ciscoMsPattern = regexp.MustCompile(`^(AM|PM)(?:\.(\d+))?$`)

var appTagPattern = regexp.MustCompile(`^(%?[^\[: \t]+)(?:\[(\w+)\])?:\s*`)

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// parseRFC3164 decodes s (the entire original frame) as a legacy/Cisco syslog message
//
// It is both the fallback from a failed RFC 5424 attempt and the last-resort dialect. It never
// fails outright; the worst case is a Record with no timestamp and Message set to the full input.
func (p *Parser) parseRFC3164(s string) *record.Record {
	rec := record.New()

	pri, rest, err := parsePRI(s)
	if err != nil {
		rec.Message = s
		return rec
	}
	rec.SetPriority(pri)

	ts, loc, tsOK, rest2 := parseTimestampDialect(rest, p.now)
	if !tsOK {
		rec.Message = s
		return rec
	}
	rec.Timestamp = ts
	rec.HasTimestamp = true
	_ = loc
	rest = rest2

	rest = parseHeaderAndBody(rec, rest)
	rec.Message = rest
	return rec
}

// parseTimestampDialect tries the four supported RFC 3164 timestamp dialects in priority order
func parseTimestampDialect(s string, now Clock) (ts time.Time, loc *time.Location, ok bool, rest string) {
	tok1, rest1 := nextToken(s)

	if len(tok1) == 4 && isAllDigits(tok1) {
		return parseExplicitYearDialect(tok1, rest1)
	}

	month, isMonth := months[tok1]
	if !isMonth {
		return time.Time{}, nil, false, s
	}

	dayTok, rest2 := nextToken(rest1)
	day, dayOK := strconv.Atoi(dayTok)
	if dayOK != nil || day < 1 || day > 31 {
		return time.Time{}, nil, false, s
	}

	// Cisco CUCM dialect: "Mon DD YYYY HH:MM:SS[AM|PM][.ms] [TZ] [ : ]"
	if yearTok, rest3 := nextToken(rest2); len(yearTok) == 4 && isAllDigits(yearTok) {
		if rec, ok2 := tryCiscoDialect(month, day, yearTok, rest3); ok2 {
			return rec.ts, rec.loc, true, rec.rest
		}
	}

	clockTok, rest3 := nextToken(rest2)
	hh, mm, ss, clockOK := parseClock(clockTok)
	if !clockOK {
		return time.Time{}, nil, false, s
	}

	// ctime-style with trailing year: "Mon DD HH:MM:SS [TZ] YYYY ..."
	loc = time.UTC
	rest4 := rest3
	if tzTok, afterTZ := nextToken(rest4); func() bool { l, r := resolveTimezone(tzTok); loc = l; return r }() {
		rest4 = afterTZ
	} else {
		loc = time.UTC
	}
	if yearTok, afterYear := nextToken(rest4); len(yearTok) == 4 && isAllDigits(yearTok) {
		year, _ := strconv.Atoi(yearTok)
		ts = time.Date(year, month, day, hh, mm, ss, 0, loc).UTC()
		return ts, loc, true, afterYear
	}

	// classic RFC 3164, no year: "Mon DD HH:MM:SS [TZ] ..."
	loc = time.UTC
	rest5 := rest3
	if tzTok, afterTZ := nextToken(rest5); func() bool { l, r := resolveTimezone(tzTok); loc = l; return r }() {
		rest5 = afterTZ
	} else {
		loc = time.UTC
	}
	nowUTC := now().UTC()
	year := nowUTC.Year()
	ts = time.Date(year, month, day, hh, mm, ss, 0, loc).UTC()
	if ts.After(nowUTC) {
		ts = time.Date(year-1, month, day, hh, mm, ss, 0, loc).UTC()
	}
	return ts, loc, true, rest5
}

func parseExplicitYearDialect(yearTok, rest string) (time.Time, *time.Location, bool, string) {
	year, _ := strconv.Atoi(yearTok)
	monTok, rest2 := nextToken(rest)
	month, isMonth := months[monTok]
	if !isMonth {
		return time.Time{}, nil, false, rest
	}
	dayTok, rest3 := nextToken(rest2)
	day, dayErr := strconv.Atoi(dayTok)
	if dayErr != nil {
		return time.Time{}, nil, false, rest
	}
	clockTok, rest4 := nextToken(rest3)
	hh, mm, ss, clockOK := parseClock(clockTok)
	if !clockOK {
		return time.Time{}, nil, false, rest
	}
	loc := time.UTC
	rest5 := rest4
	if tzTok, afterTZ := nextToken(rest5); func() bool { l, r := resolveTimezone(tzTok); loc = l; return r }() {
		rest5 = afterTZ
	}
	ts := time.Date(year, month, day, hh, mm, ss, 0, loc).UTC()
	return ts, loc, true, rest5
}

type ciscoResult struct {
	ts   time.Time
	loc  *time.Location
	rest string
}

// tryCiscoDialect parses the CUCM 12-hour-clock fraction-of-second dialect:
// "HH:MM:SS PM.ms [UTC|TZ] [ : ] rest"
func tryCiscoDialect(month time.Month, day int, yearTok, rest string) (ciscoResult, bool) {
	year, _ := strconv.Atoi(yearTok)
	clockTok, rest2 := nextToken(rest)
	hh, mm, ss, clockOK := parseClock(clockTok)
	if !clockOK {
		return ciscoResult{}, false
	}
	ampmTok, rest3 := nextToken(rest2)
	m := ciscoMsPattern.FindStringSubmatch(ampmTok)
	if m == nil {
		return ciscoResult{}, false
	}
	if m[1] == "PM" && hh != 12 {
		hh += 12
	} else if m[1] == "AM" && hh == 12 {
		hh = 0
	}
	nanos := 0
	if m[2] != "" {
		ms, _ := strconv.Atoi(m[2])
		for i := len(m[2]); i < 9; i++ {
			ms *= 10
		}
		nanos = ms
	}

	loc := time.UTC
	rest4 := rest3
	if tzTok, afterTZ := nextToken(rest4); func() bool { l, r := resolveTimezone(tzTok); loc = l; return r }() {
		rest4 = afterTZ
	}
	rest4 = strings.TrimPrefix(rest4, ": ")
	if strings.HasPrefix(rest4, ":") {
		rest4 = strings.TrimSpace(rest4[1:])
	}

	ts := time.Date(year, month, day, hh, mm, ss, nanos, loc).UTC()
	return ciscoResult{ts: ts, loc: loc, rest: rest4}, true
}

func parseClock(tok string) (hh, mm, ss int, ok bool) {
	m := clockPattern.FindStringSubmatch(tok)
	if m == nil {
		return 0, 0, 0, false
	}
	hh, _ = strconv.Atoi(m[1])
	mm, _ = strconv.Atoi(m[2])
	ss, _ = strconv.Atoi(m[3])
	return hh, mm, ss, true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseHeaderAndBody parses HOSTNAME [IPv4] APP-NAME[PROCID]: [STRUCTURED-DATA] and returns the
// remaining text to use as MSG
func parseHeaderAndBody(rec *record.Record, s string) string {
	if !shouldSkipHostname(s) {
		hostTok, rest := nextToken(s)
		if hostTok != "" {
			if e := boundedField("hostname", hostTok, maxHostnameLen); e == nil {
				rec.Hostname = hostTok
			}
			s = rest
			if ipTok, rest2 := nextToken(s); ipv4Pattern.MatchString(ipTok) && net.ParseIP(ipTok) != nil {
				rec.IPAddress = ipTok
				s = rest2
			}
		}
	}

	if m := appTagPattern.FindStringSubmatch(s); m != nil {
		appName := m[1]
		if e := boundedField("app_name", appName, maxAppNameLen); e == nil {
			rec.AppName = appName
		}
		if m[2] != "" {
			if e := boundedField("process_id", m[2], maxProcIDLen); e == nil {
				rec.ProcessID = m[2]
			}
		}
		s = s[len(m[0]):]
	}

	if strings.HasPrefix(s, "[") {
		if data, remainder, ok := parseStructuredData(s); ok {
			rec.StructuredData = data
			s = remainder
		}
	} else if strings.HasPrefix(s, "%[") {
		if data, remainder, ok := parseCiscoBracketSD(s[1:]); ok {
			rec.StructuredData = data
			s = remainder
		}
	}

	return s
}

// shouldSkipHostname detects the Cisco pattern where no hostname token precedes the tag, e.g.
// "%UC_AUDITLOG-5-AdministrativeEvent: ..."
//
// Only a remainder that starts with '%' skips hostname capture; a remainder starting with ": %" or
// with an unrecognized abbreviation followed by " : %" is not detected, and its first token is taken
// as the hostname.
func shouldSkipHostname(s string) bool {
	if strings.HasPrefix(s, "%") {
		return true
	}
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		return false
	}
	return false
}

// parseCiscoBracketSD parses the Cisco "[ key = value ][ key = value ]...:" dialect, body starting
// right after the leading '%'
func parseCiscoBracketSD(s string) (map[string]record.StructuredElement, string, bool) {
	data := make(map[string]record.StructuredElement)
	rest := s
	count := 0
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, s, false
		}
		body := rest[1:end]
		kv := strings.SplitN(body, "=", 2)
		if len(kv) != 2 {
			return nil, s, false
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		// a repeated key overwrites the earlier occurrence
		data[key] = record.StructuredElement{"value": value}
		rest = rest[end+1:]
		count++
	}
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimLeft(rest, " ")
	if count == 0 {
		return nil, s, false
	}
	return data, rest, true
}
