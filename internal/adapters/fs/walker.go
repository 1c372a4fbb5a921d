// Package fs provides file system adapters for checksumming and finding sources.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
)

// Walker provides recursive file walking.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root whose extension is in exts, or every
// file when exts is empty. Hidden directories such as .git are skipped.
// Paths are yielded in lexical order and include root.
func (w *Walker) WalkFiles(root string, exts []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && w.shouldSkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if len(exts) > 0 && !slices.Contains(exts, filepath.Ext(path)) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// shouldSkipDir reports whether a directory is tool metadata rather than sources.
func (w *Walker) shouldSkipDir(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
