package domain

import "path/filepath"

const (
	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "cbuild.yaml"

	// CacheFilePrefix and CacheFileSuffix surround the unit name in a cache file name.
	CacheFilePrefix = "."
	CacheFileSuffix = ".cache"

	// ObjectExt is the extension given to every compiled object.
	ObjectExt = ".o"

	// MarkerDefine is passed to every compile so sources can detect the build tool.
	MarkerDefine = "-D_CBUILD"

	// DefaultArchiver is used for static libraries when nothing else is configured.
	DefaultArchiver = "ar"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CacheFileName returns the cache file name for a unit, e.g. ".core.cache".
func CacheFileName(unit string) string {
	return CacheFilePrefix + unit + CacheFileSuffix
}

// CachePath returns the cache file path for a unit under dir.
func CachePath(dir, unit string) string {
	return filepath.Join(dir, CacheFileName(unit))
}
