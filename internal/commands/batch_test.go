package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioconv/folioconv/internal/runlog"
)

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(fixturePath(name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestRunBatch(t *testing.T) {
	root := t.TempDir()
	importDir := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	copyFixture(t, "vanguard_roth.csv", filepath.Join(importDir, "roth.csv"))
	copyFixture(t, "morganstanley_releases.csv", filepath.Join(importDir, "releases.csv"))

	var out, errw bytes.Buffer
	err := runBatch(&out, &errw, root, "")
	require.NoError(t, err)

	// Converted output written.
	data, err := os.ReadFile(filepath.Join(root, "converted", "roth.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date,Investment,Transaction Type,Shares,Amount")
	assert.Contains(t, string(data), "Dividend")

	// Inputs moved to processed.
	_, err = os.Stat(filepath.Join(importDir, "roth.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(importDir, "processed", "roth.csv"))
	assert.NoError(t, err)

	// One log entry per file.
	entries, err := runlog.Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Contains(t, out.String(), "converted roth.csv")
	assert.Contains(t, out.String(), "converted releases.csv")
}

func TestRunBatch_EmptyImportDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "import"), 0o755))

	var out, errw bytes.Buffer
	err := runBatch(&out, &errw, root, "")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no CSV files")
}

func TestRunBatch_UndetectableFileFails(t *testing.T) {
	root := t.TempDir()
	importDir := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.csv"), []byte("Some,Other,Bank\n1,2,3\n"), 0o644))

	var out, errw bytes.Buffer
	err := runBatch(&out, &errw, root, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other.csv")
}
