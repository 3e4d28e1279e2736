package highlight

import (
	"strings"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// ParseGroup splits a comma-separated pattern group, trimming whitespace and
// dropping empty entries.
func ParseGroup(s string) []string {
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Groups turns comma-separated pattern groups into PatternGroups with the
// scheme color left unset.
func Groups(specs ...string) []types.PatternGroup {
	groups := make([]types.PatternGroup, 0, len(specs))
	for _, s := range specs {
		groups = append(groups, types.PatternGroup{Patterns: ParseGroup(s)})
	}
	return groups
}

var regexpMeta = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`+`, `\+`,
	`?`, `\?`,
	`^`, `\^`,
	`$`, `\$`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`[`, `\[`,
	`]`, `\]`,
)

// EscapeRegExp escapes regular expression metacharacters in s.
func EscapeRegExp(s string) string {
	return regexpMeta.Replace(s)
}

// LiteralRegex builds a /.../ pattern matching s verbatim. Unlike a literal
// pattern, the result never treats "..." as a wildcard.
func LiteralRegex(s string) string {
	return "/" + EscapeRegExp(s) + "/"
}
