package parser

import (
	"strings"

	"github.com/loglane/syslogcore/record"
)

var sdEscapeReplacer = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\]`, `]`)

// parseStructuredData parses zero or more "[SD-ID name=\"value\" ...]" elements from the start of s
//
// It returns the parsed elements, the unconsumed remainder, and whether parsing succeeded. On
// failure the caller should treat structured data as absent and fall back to treating the whole of
// s as MSG (graceful degradation, per the structured_data_invalid error kind).
func parseStructuredData(s string) (data map[string]record.StructuredElement, rest string, ok bool) {
	rest = s
	for len(rest) > 0 && rest[0] == '[' {
		elementBody, remainder, found := splitBracketElement(rest)
		if !found {
			return nil, s, false
		}
		sdID, params, perr := parseStructuredElementBody(elementBody)
		if perr != nil {
			return nil, s, false
		}
		if data == nil {
			data = make(map[string]record.StructuredElement, 1)
		}
		elem, exists := data[sdID]
		if !exists {
			elem = make(record.StructuredElement, len(params))
			data[sdID] = elem
		}
		for k, v := range params {
			elem[k] = v
		}
		rest = remainder
	}
	return data, rest, true
}

// splitBracketElement finds the matching unescaped ']' for the '[' at the start of s
func splitBracketElement(s string) (body string, rest string, found bool) {
	inQuotes := false
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped character
		case '"':
			inQuotes = !inQuotes
		case ']':
			if !inQuotes {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

func parseStructuredElementBody(body string) (sdID string, params map[string]string, err *parseError) {
	sdID, rest := nextToken(body)
	if sdID == "" || len(sdID) > maxSDIDLen {
		return "", nil, &parseError{kind: errStructuredDataInvalid}
	}
	params = make(map[string]string)
	for len(rest) > 0 {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return "", nil, &parseError{kind: errStructuredDataInvalid}
		}
		name := rest[:eq]
		rest = rest[eq+1:]
		if len(rest) == 0 || rest[0] != '"' {
			return "", nil, &parseError{kind: errStructuredDataInvalid}
		}
		value, after, ok := readQuotedValue(rest[1:])
		if !ok {
			return "", nil, &parseError{kind: errStructuredDataInvalid}
		}
		params[name] = sdEscapeReplacer.Replace(value)
		rest = strings.TrimPrefix(after, " ")
	}
	return sdID, params, nil
}

// readQuotedValue reads up to the next unescaped '"', returning the raw (still-escaped) value and
// the remainder after the closing quote
//
// Only '\\', '\"' and '\]' are legal escape sequences inside a param value; a backslash before any
// other character is malformed and fails the whole structured-data element.
func readQuotedValue(s string) (value string, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", s, false
			}
			switch s[i+1] {
			case '\\', '"', ']':
				i++
			default:
				return "", s, false
			}
		case '"':
			return s[:i], s[i+1:], true
		}
	}
	return "", s, false
}
