package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts the file reads of the loader for testability.
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is the discovered project file
	return os.ReadFile(path)
}

// MapFSAdapter serves an fs.FS, typically fstest.MapFS, as if it were
// mounted at Root.
type MapFSAdapter struct {
	FS   fs.FS
	Root string
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:   fsys,
		Root: filepath.Clean(root),
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(m.FS, m.toRelPath(path))
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(m.FS, m.toRelPath(path))
}

// toRelPath maps an absolute path under Root to an fs.FS name. Paths outside
// Root come back unchanged and fail downstream as not found.
func (m *MapFSAdapter) toRelPath(absPath string) string {
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}
	if absPath == m.Root {
		return "."
	}
	prefix := m.Root + string(filepath.Separator)
	if m.Root == string(filepath.Separator) {
		prefix = m.Root
	}
	if !strings.HasPrefix(absPath, prefix) {
		return absPath
	}
	return filepath.ToSlash(strings.TrimPrefix(absPath, prefix))
}
