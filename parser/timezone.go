package parser

import (
	"regexp"
	"time"
)

// tzOffsetPattern matches the "TZ-N"/"TZ+N" dialect, e.g. "TZ-6" meaning UTC-6
var tzOffsetPattern = regexp.MustCompile(`^TZ([+-])(\d{1,2})$`)

// abbreviationOffsets maps a small, fixed set of known non-numeric timezone abbreviations to a
// representative fixed UTC offset. This is intentionally not a full IANA database: unrecognized
// abbreviations fall back to UTC.
var abbreviationOffsets = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"BST": 1, // Europe/London, British Summer Time
	"CST": 2, // Europe/Brussels, Central European Summer Time
	"CET": 2, // Europe/Brussels
}

// resolveTimezone returns the *time.Location represented by token, and whether token was recognized
// as a timezone token at all (as opposed to not being present)
func resolveTimezone(token string) (loc *time.Location, recognized bool) {
	if m := tzOffsetPattern.FindStringSubmatch(token); m != nil {
		hours := 0
		for _, c := range m[2] {
			hours = hours*10 + int(c-'0')
		}
		sign := 1
		if m[1] == "-" {
			sign = -1
		}
		return time.FixedZone(token, sign*hours*3600), true
	}
	if offset, ok := abbreviationOffsets[token]; ok {
		return time.FixedZone(token, offset*3600), true
	}
	return time.UTC, false
}
