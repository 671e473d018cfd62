package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCommands_RegisterTraversalFlags(t *testing.T) {
	for _, cmd := range []*cobra.Command{newListCommand(), newScanCommand()} {
		for _, name := range []string{"classpath", "prefix", "strict", "first-only", "parallel"} {
			assert.NotNil(t, cmd.Flags().Lookup(name), "%s missing --%s", cmd.Use, name)
		}
	}
}

func TestDocAndIndexCommands_RegisterOnlyHonoredFlags(t *testing.T) {
	for _, cmd := range []*cobra.Command{newDocCommand(), newIndexCommand()} {
		assert.NotNil(t, cmd.Flags().Lookup("classpath"), "%s missing --classpath", cmd.Use)
		assert.NotNil(t, cmd.Flags().Lookup("strict"), "%s missing --strict", cmd.Use)
		for _, name := range []string{"prefix", "first-only", "parallel"} {
			assert.Nil(t, cmd.Flags().Lookup(name), "%s registers unhonored --%s", cmd.Use, name)
		}
	}
}

func TestResolveDBFile(t *testing.T) {
	assert.Equal(t, "/explicit/cache.db", resolveDBFile("/explicit/cache.db"))

	dir := t.TempDir()
	t.Setenv("NSSCAN_DB_PATH", dir)
	assert.Equal(t, filepath.Join(dir, "nsscan.db"), resolveDBFile(""))
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"list", "scan", "doc", "path", "index", "serve", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
