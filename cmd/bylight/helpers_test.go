package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testSetsYAML = `sets:
  - id: test.calls
    name: Test Calls
    description: Calls of foo and bar
    groups:
      - match: "foo(...)"
      - match: "bar(...)"
        color: "#ff0000"
    examples:
      - "foo(1)"
`

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestCmd returns a bare command writing to the returned buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func resetScanFlags() {
	scanSetsPath = ""
	scanSetsInclude = ""
	scanSetsExclude = ""
	scanOutputPath = ":memory:"
	scanOutputFormat = "human"
	scanMaxFileSize = 10 * 1024 * 1024
	scanIncludeHidden = false
	scanContextLines = 0
	scanIncremental = false
	scanExtensions = nil
	scanWorkers = 0
	scanDedupe = "location"
}
