package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileProvenance(t *testing.T) {
	prov := FileProvenance{FilePath: "/path/to/file.go"}

	assert.Equal(t, "file", prov.Kind())
	assert.Equal(t, "/path/to/file.go", prov.Path())
}

func TestInlineProvenance(t *testing.T) {
	var prov Provenance = InlineProvenance{Source: "stdin"}

	assert.Equal(t, "inline", prov.Kind())
	assert.Equal(t, "stdin", prov.Path())
}
