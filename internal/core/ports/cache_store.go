package ports

import "go.trai.ch/cbuild/internal/core/domain"

// CacheStore persists unit caches.
//
//go:generate mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Read loads the cache file at path.
	// Returns nil, nil if the file does not exist.
	Read(path string) (*domain.CacheFile, error)

	// Write replaces the cache file at path.
	Write(path string, file *domain.CacheFile) error

	// Remove deletes the cache file at path. A missing file is not an error.
	Remove(path string) error

	// List returns the cache files found directly in dir, keyed by unit name.
	List(dir string) (map[string]string, error)
}
