package patternset

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSets_Valid(t *testing.T) {
	loader := NewLoader()

	data := `sets:
  - id: demo.calls
    name: Demo Calls
    description: demo
    groups:
      - match: "go(...), defer ...()"
        color: "#ff0000"
      - patterns:
          - "f(a, ...)"
          - "/x+/"
    examples:
      - "go(a)"
`

	sets, err := loader.LoadSets([]byte(data))
	require.NoError(t, err)
	require.Len(t, sets, 1)

	s := sets[0]
	assert.Equal(t, "demo.calls", s.ID)
	assert.Equal(t, "Demo Calls", s.Name)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, []string{"go(...)", "defer ...()"}, s.Groups[0].Patterns)
	assert.Equal(t, "#ff0000", s.Groups[0].Color)
	assert.Equal(t, []string{"f(a, ...)", "/x+/"}, s.Groups[1].Patterns)
	assert.Empty(t, s.Groups[1].Color)
	assert.Equal(t, s.ComputeStructuralID(), s.StructuralID)
	assert.Equal(t, 4, s.PatternCount())
}

func TestLoadSets_InvalidYAML(t *testing.T) {
	_, err := NewLoader().LoadSets([]byte(`this is not valid yaml: [[[`))
	assert.Error(t, err)
}

func TestLoadSets_NoSets(t *testing.T) {
	_, err := NewLoader().LoadSets([]byte(`sets: []`))
	assert.Error(t, err)
}

func TestLoadSets_NoGroups(t *testing.T) {
	data := `sets:
  - id: empty
    name: Empty
`
	_, err := NewLoader().LoadSets([]byte(data))
	assert.ErrorIs(t, err, ErrNoGroups)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	data := `sets:
  - id: custom
    name: Custom
    groups:
      - match: "TODO(...)"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sets, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "custom", sets[0].ID)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadBuiltin(t *testing.T) {
	sets, err := NewLoader().LoadBuiltin()
	require.NoError(t, err)
	require.NotEmpty(t, sets)

	ids := make(map[string]bool)
	for _, s := range sets {
		assert.False(t, ids[s.ID], "duplicate set ID %s", s.ID)
		ids[s.ID] = true
		assert.NotEmpty(t, s.Examples, "set %s should carry examples", s.ID)
	}
	assert.True(t, ids["go.concurrency"])
	assert.True(t, ids["js.dom"])
	assert.True(t, ids["python.structure"])
}

func TestLoadBuiltin_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/a.yml": {Data: []byte("sets:\n  - id: a\n    name: A\n    groups:\n      - match: \"a\"\n")},
		"sets/b.txt": {Data: []byte("ignored")},
	}

	sets, err := NewLoaderWithFS(fsys).LoadBuiltin()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "a", sets[0].ID)
}

func TestLoadBuiltin_BadFileFails(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/bad.yml": {Data: []byte("sets:\n  - id: bad\n    name: Bad\n    groups:\n      - match: \"/(/\"\n")},
	}

	_, err := NewLoaderWithFS(fsys).LoadBuiltin()
	assert.Error(t, err)
}
