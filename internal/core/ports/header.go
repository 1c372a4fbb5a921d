package ports

import "go.trai.ch/cbuild/internal/core/domain"

// HeaderWriter generates the build configuration header.
//
//go:generate mockgen -source=header.go -destination=mocks/mock_header.go -package=mocks
type HeaderWriter interface {
	// Write renders the header for the enabled options and writes it to
	// spec.Path unless the file already has identical content.
	// It reports whether the file changed.
	Write(spec domain.HeaderSpec, mode domain.BuildMode, options domain.OptionSet) (bool, error)
}
