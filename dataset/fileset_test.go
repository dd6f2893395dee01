package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall-obs/evtable/errs"
)

func TestLocate(t *testing.T) {
	fs := newFileSet([]FileEntry{
		{HeaderPath: "a", Rows: 3},
		{HeaderPath: "b", Rows: 5},
		{HeaderPath: "c", Rows: 2},
	})
	require.Equal(t, 10, fs.Total())

	tests := []struct {
		global, fileID, local int
	}{
		{1, 1, 1},
		{3, 1, 3},
		{4, 2, 1},
		{7, 2, 4},
		{8, 2, 5},
		{9, 3, 1},
		{10, 3, 2},
	}
	for _, tt := range tests {
		fileID, local, err := fs.Locate(tt.global)
		require.NoError(t, err)
		require.Equal(t, tt.fileID, fileID, "global %d", tt.global)
		require.Equal(t, tt.local, local, "global %d", tt.global)
	}

	_, _, err := fs.Locate(0)
	require.ErrorIs(t, err, errs.ErrEventOutOfRange)
	_, _, err = fs.Locate(11)
	require.ErrorIs(t, err, errs.ErrEventOutOfRange)
}

func TestLocateSkipsEmptyFile(t *testing.T) {
	fs := newFileSet([]FileEntry{
		{HeaderPath: "a", Rows: 2},
		{HeaderPath: "empty", Rows: 0},
		{HeaderPath: "c", Rows: 1},
	})

	fileID, local, err := fs.Locate(3)
	require.NoError(t, err)
	require.Equal(t, 3, fileID)
	require.Equal(t, 1, local)
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DS"+SuffixManifest)

	require.NoError(t, appendManifest(path, "DS-001_HEAD.EVT"))
	require.NoError(t, appendManifest(path, "DS-002_HEAD.EVT"))

	names, err := LoadManifest(path)
	require.NoError(t, err)
	require.Equal(t, []string{"DS-001_HEAD.EVT", "DS-002_HEAD.EVT"}, names)
}

func TestLoadManifestSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DS.LIST")
	content := "# processing order\n\nDS-001_HEAD.EVT\n   \nDS-002_HEAD.EVT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	names, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, names, 2)
}

func TestLoadManifestEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DS.LIST")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))

	_, err := LoadManifest(path)
	require.ErrorIs(t, err, errs.ErrEmptyManifest)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.LIST"))
	require.Error(t, err)
}
