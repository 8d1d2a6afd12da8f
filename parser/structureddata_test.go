package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// escapeSDValue mirrors the ESC transform from spec property 5: replace \, ", ] with \\, \", \].
func escapeSDValue(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `]`, `\]`)
	return replacer.Replace(s)
}

// TestStructuredDataEscapingRoundTrips checks property 5: for every string not containing an
// unescaped '"' or ']', encoding "[id k=\"ESC(s)\"]" and parsing it recovers s exactly.
func TestStructuredDataEscapingRoundTrips(t *testing.T) {
	cases := []string{
		"",
		"plain",
		`has\backslash`,
		`has"quote`,
		"has]bracket",
		`mixes\"]all three`,
		"trailing backslash at\\end then more",
	}

	for i, s := range cases {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			frame := fmt.Sprintf(`[id k="%s"]`, escapeSDValue(s))
			data, rest, ok := parseStructuredData(frame)
			require.True(t, ok, "frame=%q", frame)
			assert.Empty(t, rest)
			require.Contains(t, data, "id")
			assert.Equal(t, s, data["id"]["k"])
		})
	}
}

// TestStructuredDataLoneBackslashIsInvalid checks that a backslash preceding anything other than
// \, ", or ] fails the structured-data parse rather than passing the stray backslash through.
func TestStructuredDataLoneBackslashIsInvalid(t *testing.T) {
	_, _, ok := parseStructuredData(`[id k="a\xb"]`)
	assert.False(t, ok)
}
