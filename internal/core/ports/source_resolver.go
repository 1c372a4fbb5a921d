package ports

// SourceResolver expands source search paths into source files.
//
//go:generate mockgen -source=source_resolver.go -destination=mocks/mock_source_resolver.go -package=mocks
type SourceResolver interface {
	// Glob returns the files directly inside each dir whose extension is one
	// of exts, in a stable order.
	Glob(dirs, exts []string) ([]string, error)

	// Dedupe drops every path that resolves to the same absolute path as an
	// earlier one. The first occurrence wins.
	Dedupe(paths []string) ([]string, error)
}
