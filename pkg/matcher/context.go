package matcher

import (
	"github.com/praetorian-inc/bylight/pkg/types"
)

// ExtractSnippet returns the matched text of span together with up to lines
// lines of surrounding content on each side. The strings are copies, so
// storing a snippet does not pin content in memory.
// Context starts immediately before span.Start and ends immediately after
// span.End; the matched text is not repeated in Before or After.
func ExtractSnippet(content []byte, span types.Span, lines int) types.Snippet {
	start := clampOffset(span.Start, len(content))
	end := clampOffset(span.End, len(content))
	if end < start {
		end = start
	}

	snippet := types.Snippet{Matching: string(content[start:end])}
	if lines <= 0 {
		return snippet
	}
	snippet.Before = string(linesBefore(content, start, lines))
	snippet.After = string(linesAfter(content, end, lines))
	return snippet
}

// linesBefore walks backward from start counting newlines.
func linesBefore(content []byte, start, lines int) []byte {
	if start == 0 {
		return nil
	}

	found := 0
	for pos := start - 1; pos >= 0; pos-- {
		if content[pos] != '\n' {
			continue
		}
		found++
		if found == lines {
			// the Nth line starts after the previous newline
			for pos > 0 {
				pos--
				if content[pos] == '\n' {
					return content[pos+1 : start]
				}
			}
			return content[:start]
		}
	}

	return content[:start]
}

// linesAfter walks forward from end counting newlines.
func linesAfter(content []byte, end, lines int) []byte {
	if end >= len(content) {
		return nil
	}

	// a newline right after the match ends the match line
	from := end
	if content[end] == '\n' {
		from++
		if from >= len(content) {
			return nil
		}
	}

	found := 0
	for pos := from; pos < len(content); pos++ {
		if content[pos] == '\n' {
			found++
			if found == lines {
				return content[from : pos+1]
			}
		}
	}

	return content[from:]
}
