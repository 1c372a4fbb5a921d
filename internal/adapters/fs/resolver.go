package fs

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// RecursiveSuffix marks a source search path that is scanned recursively.
const RecursiveSuffix = "/**"

// Resolver finds source files in search paths.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Glob returns the files directly inside each directory of dirs whose
// extension is in exts. A directory ending in /** is scanned recursively.
// Results are sorted per directory and directories keep their order.
// A directory that does not exist contributes no files.
func (r *Resolver) Glob(dirs, exts []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		if root, ok := strings.CutSuffix(dir, RecursiveSuffix); ok {
			files, err := r.walk(root, exts)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
			continue
		}

		if ok, err := checkDir(dir); err != nil || !ok {
			if err != nil {
				return nil, err
			}
			continue
		}

		var files []string
		for _, ext := range exts {
			pattern := filepath.Join(dir, "*"+ext)
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, zerr.With(errors.Join(domain.ErrGlobFailed, err), "pattern", pattern)
			}
			files = append(files, matches...)
		}
		slices.Sort(files)
		out = append(out, files...)
	}
	return out, nil
}

func (r *Resolver) walk(root string, exts []string) ([]string, error) {
	if root == "" {
		root = "."
	}
	if ok, err := checkDir(root); err != nil || !ok {
		return nil, err
	}
	var files []string
	for path := range r.walker.WalkFiles(root, exts) {
		files = append(files, path)
	}
	return files, nil
}

// Dedupe drops paths that name the same file as an earlier entry.
func (r *Resolver) Dedupe(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrGlobFailed, err), "path", p)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// checkDir reports whether dir exists. A path that exists but cannot be
// read as a directory is an error.
func checkDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(errors.Join(domain.ErrGlobFailed, err), "path", dir)
	}
	if !info.IsDir() {
		return false, zerr.With(zerr.Wrap(domain.ErrGlobFailed, "source path is not a directory"), "path", dir)
	}
	return true, nil
}
