package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/internal/adapters/cas"
	"go.trai.ch/cbuild/internal/core/domain"
)

func sampleCache() *domain.CacheFile {
	return &domain.CacheFile{
		Fingerprint: "9f2c4e1a7b3d5f60",
		Entries: []domain.CacheEntry{
			{Source: "src/a.cc", SourceChecksum: "aa11", Object: "obj/a.o", ObjectChecksum: "bb22"},
			{Source: "src/b.cc", Object: "obj/b.o"},
			{Source: "src/c.cc", SourceChecksum: "cc33", Object: "obj/c.o"},
		},
	}
}

func TestStore_WriteRead(t *testing.T) {
	t.Parallel()

	path := domain.CachePath(filepath.Join(t.TempDir(), "obj"), "core")
	store := cas.NewStore()

	require.NoError(t, store.Write(path, sampleCache()))

	got, err := store.Read(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleCache(), got)

	// Missing checksums stay missing rather than becoming an empty digest of something.
	assert.True(t, got.Entries[1].SourceChecksum.IsZero())
	assert.True(t, got.Entries[1].ObjectChecksum.IsZero())
}

func TestStore_ReadMissing(t *testing.T) {
	t.Parallel()

	got, err := cas.NewStore().Read(filepath.Join(t.TempDir(), ".core.cache"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ReadCorrupt(t *testing.T) {
	t.Parallel()

	valid := cas.Encode(sampleCache())

	flipped := append([]byte(nil), valid...)
	flipped[len(flipped)/2] ^= 0xff

	wrongVersion := append([]byte(nil), valid...)
	wrongVersion[3] = cas.FormatVersion + 1

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte("not a cache at all, just text")},
		{name: "truncated", data: valid[:len(valid)-3]},
		{name: "bit flip", data: flipped},
		{name: "future version", data: wrongVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), ".core.cache")
			require.NoError(t, os.WriteFile(path, tt.data, 0o600))

			got, err := cas.NewStore().Read(path)
			require.ErrorIs(t, err, domain.ErrCacheCorrupt)
			assert.Nil(t, got)
		})
	}
}

func TestStore_WriteOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := domain.CachePath(dir, "app")
	store := cas.NewStore()

	require.NoError(t, store.Write(path, sampleCache()))
	require.NoError(t, store.Write(path, &domain.CacheFile{Fingerprint: "new"}))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Fingerprint)
	assert.Empty(t, got.Entries)

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_RemoveAndList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Write(domain.CachePath(dir, "core"), sampleCache()))
	require.NoError(t, store.Write(domain.CachePath(dir, "app"), sampleCache()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.o"), []byte("obj"), 0o600))

	list, err := store.List(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"core": domain.CachePath(dir, "core"),
		"app":  domain.CachePath(dir, "app"),
	}, list)

	require.NoError(t, store.Remove(domain.CachePath(dir, "core")))
	require.NoError(t, store.Remove(domain.CachePath(dir, "core")), "removing twice is fine")

	list, err = store.List(dir)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = store.List(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)
}
