package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/internal/adapters/fs"
	"go.trai.ch/cbuild/internal/core/domain"
)

func TestChecksummer_Checksum(t *testing.T) {
	tmpDir := t.TempDir()
	empty := filepath.Join(tmpDir, "empty.cc")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	c := fs.NewChecksummer()
	sum, err := c.Checksum(empty)
	require.NoError(t, err)
	assert.Equal(t, domain.Digest("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), sum)
}

func TestChecksummer_DeterministicAndSensitive(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.cc")
	b := filepath.Join(tmpDir, "b.cc")
	require.NoError(t, os.WriteFile(a, []byte("int main() { return 0; }"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("int main() { return 0; }"), 0o600))

	c := fs.NewChecksummer()
	first, err := c.Checksum(a)
	require.NoError(t, err)
	second, err := c.Checksum(a)
	require.NoError(t, err)
	same, err := c.Checksum(b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, same, "identical content must have identical checksums regardless of path")

	require.NoError(t, os.WriteFile(a, []byte("int main() { return 1; }"), 0o600))
	changed, err := c.Checksum(a)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
	assert.Len(t, string(changed), 64)
}

func TestChecksummer_MissingFile(t *testing.T) {
	c := fs.NewChecksummer()
	_, err := c.Checksum(filepath.Join(t.TempDir(), "missing.cc"))
	require.ErrorIs(t, err, domain.ErrChecksumFailed)
	require.ErrorIs(t, err, domain.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestChecksummer_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.o")
	require.NoError(t, os.WriteFile(file, []byte("obj"), 0o600))

	c := fs.NewChecksummer()
	assert.True(t, c.Exists(file))
	assert.False(t, c.Exists(filepath.Join(tmpDir, "b.o")))
	assert.False(t, c.Exists(tmpDir), "directories are not files")
}
