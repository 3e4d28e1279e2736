// Package patternset loads named collections of highlight patterns from YAML.
package patternset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/bylight/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading pattern sets from YAML files.
type Loader struct {
	fs fs.FS // filesystem holding a sets/ directory
}

// NewLoader creates a loader with the built-in sets.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinSetsFS,
	}
}

// NewLoaderWithFS creates a loader reading built-in sets from fsys.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadSets parses every set in YAML bytes. Each set is validated.
func (l *Loader) LoadSets(data []byte) ([]*types.PatternSet, error) {
	var yamlFile yamlSetsFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Sets) == 0 {
		return nil, fmt.Errorf("no sets found in YAML")
	}

	sets := make([]*types.PatternSet, 0, len(yamlFile.Sets))
	for _, ys := range yamlFile.Sets {
		set := convertYAMLSet(ys)
		if err := ValidateSet(set); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// LoadFile loads pattern sets from a YAML file path.
func (l *Loader) LoadFile(path string) ([]*types.PatternSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	sets, err := l.LoadSets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sets, nil
}

// LoadBuiltin loads all built-in sets.
func (l *Loader) LoadBuiltin() ([]*types.PatternSet, error) {
	var sets []*types.PatternSet

	err := fs.WalkDir(l.fs, "sets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		loaded, err := l.LoadSets(data)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		sets = append(sets, loaded...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sets, nil
}

// convertYAMLSet converts yamlSet to types.PatternSet and computes StructuralID.
func convertYAMLSet(ys yamlSet) *types.PatternSet {
	s := &types.PatternSet{
		ID:          ys.ID,
		Name:        ys.Name,
		Description: ys.Description,
		Examples:    ys.Examples,
	}
	for _, yg := range ys.Groups {
		patterns := ParsePatterns(yg.Match)
		patterns = append(patterns, yg.Patterns...)
		s.Groups = append(s.Groups, types.PatternGroup{
			Patterns: patterns,
			Color:    yg.Color,
		})
	}
	s.StructuralID = s.ComputeStructuralID()
	return s
}
