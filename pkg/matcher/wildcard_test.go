package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanWildcard(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start      int
		terminator string
		want       int
	}{
		{
			name:       "stops at terminator",
			text:       "a b c d e",
			start:      1,
			terminator: "e",
			want:       8,
		},
		{
			name:       "no terminator runs to end",
			text:       "abc",
			start:      0,
			terminator: "",
			want:       3,
		},
		{
			name:       "unmatched closer ends the run",
			text:       "a, b) rest",
			start:      0,
			terminator: "",
			want:       4,
		},
		{
			name:       "balanced group is skipped",
			text:       "a, (b), c)",
			start:      0,
			terminator: ")",
			want:       9,
		},
		{
			name:       "terminator inside brackets is ignored",
			text:       "(x), x",
			start:      0,
			terminator: "x",
			want:       5,
		},
		{
			name:       "closer inside double quotes is ignored",
			text:       `"c)d")`,
			start:      0,
			terminator: ")",
			want:       5,
		},
		{
			name:       "closer inside single quotes is ignored",
			text:       `'a(b)')`,
			start:      0,
			terminator: ")",
			want:       6,
		},
		{
			name:       "escaped quote does not close the string",
			text:       `"a\")b")`,
			start:      0,
			terminator: ")",
			want:       7,
		},
		{
			name:       "other quote kind does not close the string",
			text:       `"it's)")`,
			start:      0,
			terminator: ")",
			want:       7,
		},
		{
			name:       "terminator quote stops before opening a string",
			text:       `abc")`,
			start:      0,
			terminator: `"`,
			want:       3,
		},
		{
			name:       "unterminated string runs to end",
			text:       `"abc)`,
			start:      0,
			terminator: ")",
			want:       5,
		},
		{
			name:       "unclosed bracket runs to end",
			text:       "(abc",
			start:      0,
			terminator: "c",
			want:       4,
		},
		{
			name:       "mixed bracket kinds",
			text:       "[1, {a: (b)}]}",
			start:      0,
			terminator: "",
			want:       13,
		},
		{
			name:       "multi-byte terminator",
			text:       "aèbéc",
			start:      0,
			terminator: "é",
			want:       4,
		},
		{
			name:       "start at end of text",
			text:       "abc",
			start:      3,
			terminator: "x",
			want:       3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanWildcard(tt.text, tt.start, tt.terminator)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, tt.start)
			assert.LessOrEqual(t, got, len(tt.text))
		})
	}
}

func TestScanWildcard_ClampsOutOfRangeStart(t *testing.T) {
	assert.Equal(t, 3, ScanWildcard("abc", -5, ""))
	assert.Equal(t, 1, ScanWildcard("a)c", -5, ""))
	assert.Equal(t, 3, ScanWildcard("abc", 10, ""))
}
