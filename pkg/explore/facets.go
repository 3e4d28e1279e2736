package explore

import (
	"slices"
	"sort"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// facetID identifies a facet category.
type facetID int

const (
	facetSet facetID = iota
	facetExtension
)

// facetDef defines a facet category.
type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetSet, "Pattern Set"},
	{facetExtension, "Extension"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the complete filter state.
type facetState struct {
	Values map[facetID][]*facetValue
}

func newFacetState() *facetState {
	return &facetState{
		Values: make(map[facetID][]*facetValue),
	}
}

// buildFacets builds facet values from pattern rows.
func buildFacets(rows []*patternRow) *facetState {
	fs := newFacetState()

	sets := make(map[string]int)
	extensions := make(map[string]int)

	for _, r := range rows {
		sets[r.SetName]++
		for _, ext := range r.Extensions {
			extensions[ext]++
		}
	}

	fs.Values[facetSet] = mapToFacetValues(facetSet, sets)
	fs.Values[facetExtension] = mapToFacetValues(facetExtension, extensions)

	return fs
}

func mapToFacetValues(id facetID, counts map[string]int) []*facetValue {
	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{FacetID: id, Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// selectedValues returns the set of selected values for a facet.
func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

// hasActiveFilters returns true if any facet has selections.
func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// resetAll deselects all facet values.
func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesRow returns true if a row passes all active filters.
// Within a facet: OR (union). Across facets: AND (intersection).
func (fs *facetState) matchesRow(r *patternRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue
		}

		switch def.ID {
		case facetSet:
			if !selected[r.SetName] {
				return false
			}
		case facetExtension:
			if !slices.ContainsFunc(r.Extensions, func(ext string) bool { return selected[ext] }) {
				return false
			}
		}
	}
	return true
}

// updateCounts recounts facet values over the rows passing the filters.
func (fs *facetState) updateCounts(rows []*patternRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}

	for _, r := range rows {
		if !fs.matchesRow(r) {
			continue
		}
		for _, v := range fs.Values[facetSet] {
			if v.Value == r.SetName {
				v.Count++
			}
		}
		for _, v := range fs.Values[facetExtension] {
			if slices.Contains(r.Extensions, v.Value) {
				v.Count++
			}
		}
	}
}

// patternRow is the view model for one pattern of a set and all its matches.
type patternRow struct {
	SetID      string
	SetName    string
	Pattern    string
	GroupIndex int
	Color      string
	MatchCount int
	Files      []string // distinct paths in first-seen order
	Extensions []string // distinct extensions in first-seen order
	Matches    []*matchRow
}

func (r *patternRow) addMatch(m *matchRow) {
	r.Matches = append(r.Matches, m)
	r.MatchCount++
	if m.Path != "" && !slices.Contains(r.Files, m.Path) {
		r.Files = append(r.Files, m.Path)
	}
	if ext := extensionOf(m.Path); !slices.Contains(r.Extensions, ext) {
		r.Extensions = append(r.Extensions, ext)
	}
}

// matchRow is the view model for a single match.
type matchRow struct {
	StructuralID string
	BlobID       types.BlobID
	Path         string
	Color        string
	Location     types.Location
	Snippet      types.Snippet
	Provenance   []types.Provenance
}
