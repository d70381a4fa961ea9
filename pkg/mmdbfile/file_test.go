package mmdbfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleLayout(t *testing.T) {
	treeBytes := []byte{1, 2, 3, 4, 5, 6}
	data := []byte{0xAA, 0xBB}
	meta := Metadata{
		DatabaseType: "IP2LITE-Country",
		Description:  "IP2LITE-Country database",
		BuildEpoch:   1700000000,
		NodeCount:    1,
		RecordSize:   24,
	}

	out, err := Assemble(treeBytes, data, meta)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, treeBytes))
	rest := out[len(treeBytes):]
	require.True(t, bytes.HasPrefix(rest, dataSectionMarker))
	rest = rest[len(dataSectionMarker):]
	require.True(t, bytes.HasPrefix(rest, data))
	rest = rest[len(data):]
	require.True(t, bytes.HasPrefix(rest, metadataSeparator))
}

func TestWriteAtomicCreatesFileWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.MMDB")

	content := []byte("hello mmdb")
	require.NoError(t, WriteAtomic(path, content))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no leftover temp file")
}

func TestWriteAtomicFailsOnMissingDir(t *testing.T) {
	err := WriteAtomic(filepath.Join(t.TempDir(), "missing", "out.MMDB"), []byte("x"))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "input.csv.MMDB", OutputPath("input.csv"))
}
