// Package prefilter rules out patterns before the matcher runs them.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	matcher         *ahocorasick.Matcher
	keywords        []string         // keyword at each dictionary index
	keywordPatterns map[string][]int // keyword -> indexes of patterns needing it
	always          []int            // patterns without a keyword (always checked)
	n               int
}

// New creates a prefilter. keywords[i] is text that must occur in the subject
// for pattern i to match; an empty keyword means pattern i is always checked.
func New(keywords []string) *Prefilter {
	pf := &Prefilter{
		keywordPatterns: make(map[string][]int),
		n:               len(keywords),
	}

	for i, keyword := range keywords {
		if keyword == "" {
			pf.always = append(pf.always, i)
			continue
		}
		if _, seen := pf.keywordPatterns[keyword]; !seen {
			pf.keywords = append(pf.keywords, keyword)
		}
		pf.keywordPatterns[keyword] = append(pf.keywordPatterns[keyword], i)
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Candidates reports, for every pattern index, whether the pattern may match
// content.
func (pf *Prefilter) Candidates(content []byte) []bool {
	result := make([]bool, pf.n)
	for _, i := range pf.always {
		result[i] = true
	}

	if pf.matcher == nil {
		return result
	}

	for _, hit := range pf.matcher.Match(content) {
		for _, i := range pf.keywordPatterns[pf.keywords[hit]] {
			result[i] = true
		}
	}

	return result
}

// Keywords returns the distinct keywords in dictionary order.
func (pf *Prefilter) Keywords() []string {
	out := make([]string, len(pf.keywords))
	copy(out, pf.keywords)
	return out
}
