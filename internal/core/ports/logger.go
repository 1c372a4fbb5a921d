package ports

import "go.trai.ch/cbuild/internal/core/domain"

// Logger defines the interface for leveled progress output.
// Which messages are printed depends on the configured verbosity.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Error is always printed.
	Error(err error)
	// Warn is printed from minimal verbosity up.
	Warn(msg string)
	// Notice reports a unit result and is printed from little verbosity up.
	Notice(msg string)
	// Info reports per-source progress and is printed from average verbosity up.
	Info(msg string)
	// Detail reports tool command lines and is printed from detailed verbosity up.
	Detail(msg string)
	// Debug is printed at debug verbosity only.
	Debug(msg string)
	// SetVerbosity changes the threshold for subsequent messages.
	SetVerbosity(v domain.Verbosity)
}
