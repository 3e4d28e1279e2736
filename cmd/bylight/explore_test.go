package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExplore_MissingDatastore(t *testing.T) {
	exploreDatastore = filepath.Join(t.TempDir(), "missing.db")
	cmd, _, _ := newTestCmd()

	err := runExplore(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading datastore")
}

func TestExploreCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"explore"})
	require.NoError(t, err)
	assert.Equal(t, "explore", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("datastore"))
}
