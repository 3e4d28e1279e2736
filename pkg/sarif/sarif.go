// Package sarif renders scan matches as a SARIF 2.1.0 log.
package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "bylight"
	ToolVersion = "0.1.0"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes a pattern set.
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	Properties       RuleProperties   `json:"properties"`
}

// RuleProperties is the property bag of a Rule.
type RuleProperties struct {
	Patterns []string `json:"patterns"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single match.
type Result struct {
	RuleID     string           `json:"ruleId"`
	Level      string           `json:"level"`
	Message    Message          `json:"message"`
	Locations  []Location       `json:"locations"`
	Properties ResultProperties `json:"properties"`
}

// ResultProperties is the property bag of a Result.
type ResultProperties struct {
	Pattern      string `json:"pattern"`
	GroupIndex   int    `json:"groupIndex"`
	Color        string `json:"color,omitempty"`
	StructuralID string `json:"structuralId"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	CharOffset  int      `json:"charOffset"`
	CharLength  int      `json:"charLength"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the matched text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a pattern set as a rule.
func (r *Report) AddRule(set *types.PatternSet) {
	var patterns []string
	for _, g := range set.Groups {
		patterns = append(patterns, g.Patterns...)
	}

	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, Rule{
		ID:   set.ID,
		Name: set.Name,
		ShortDescription: ShortDescription{
			Text: set.Description,
		},
		Properties: RuleProperties{Patterns: patterns},
	})
}

// AddResult adds a match found in filePath.
func (r *Report) AddResult(match *types.Match, filePath string) {
	region := Region{
		StartLine:   match.Location.Source.Start.Line,
		StartColumn: match.Location.Source.Start.Column,
		EndLine:     match.Location.Source.End.Line,
		EndColumn:   match.Location.Source.End.Column,
		CharOffset:  match.Location.Offset.Start,
		CharLength:  match.Location.Offset.Len(),
	}
	if match.Snippet.Matching != "" {
		region.Snippet = &Snippet{Text: match.Snippet.Matching}
	}

	name := match.SetName
	if name == "" {
		name = match.SetID
	}

	result := Result{
		RuleID: match.SetID,
		Level:  "note",
		Message: Message{
			Text: fmt.Sprintf("%s: %s", name, match.Pattern),
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(filePath),
					},
					Region: region,
				},
			},
		},
		Properties: ResultProperties{
			Pattern:      match.Pattern,
			GroupIndex:   match.GroupIndex,
			Color:        match.Color,
			StructuralID: match.StructuralID,
		},
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// Build creates a report holding sets as rules and matches as results.
// A match's file is its Path.
func Build(sets []*types.PatternSet, matches []*types.Match) *Report {
	report := NewReport()
	for _, s := range sets {
		report.AddRule(s)
	}
	for _, m := range matches {
		report.AddResult(m, m.Path)
	}
	return report
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
