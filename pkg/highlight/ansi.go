package highlight

import (
	"strings"

	"github.com/fatih/color"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// RenderANSI renders text for a terminal. Each annotated run is shown in the
// color of its innermost annotation; colors that are not hex values fall back
// to underlining. With enabled false the text is returned unchanged.
func RenderANSI(text string, annotations []types.Annotation, enabled bool) string {
	if !enabled {
		return text
	}

	var b strings.Builder
	for _, seg := range segmentize(len(text), annotations) {
		chunk := text[seg.start:seg.end]
		if len(seg.active) == 0 {
			b.WriteString(chunk)
			continue
		}
		inner := annotations[seg.active[len(seg.active)-1]]
		b.WriteString(terminalColor(inner.Color).Sprint(chunk))
	}
	return b.String()
}

func terminalColor(hex string) *color.Color {
	var c *color.Color
	if r, g, b, err := HexToRGB(hex); err == nil {
		c = color.RGB(r, g, b).Add(color.Bold)
	} else {
		c = color.New(color.Underline)
	}
	c.EnableColor()
	return c
}
