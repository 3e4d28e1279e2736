package highlight

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultColors is the color scheme used when none is configured.
var DefaultColors = []string{
	"#59a14f",
	"#b82efe",
	"#007bfe",
	"#6a6a6a",
	"#ff4245",
	"#7c2d00",
	"#76b7b2",
	"#d4af37",
	"#ff9da7",
	"#f28e2c",
}

// ColorAt returns the scheme color for index i, cycling through scheme.
// An empty scheme falls back to DefaultColors.
func ColorAt(scheme []string, i int) string {
	if len(scheme) == 0 {
		scheme = DefaultColors
	}
	if i < 0 {
		i = -i
	}
	return scheme[i%len(scheme)]
}

// HexToRGB parses a #rgb or #rrggbb color.
func HexToRGB(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}
