// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/cbuild/internal/core/domain"

// Checksummer computes content hashes of files.
//
//go:generate mockgen -source=checksum.go -destination=mocks/mock_checksum.go -package=mocks
type Checksummer interface {
	// Checksum reads the whole file and returns its content hash.
	// The caller is expected to have checked that the file exists.
	Checksum(path string) (domain.Digest, error)

	// Exists reports whether path names an existing regular file.
	Exists(path string) bool
}
