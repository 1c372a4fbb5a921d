package ports

import (
	"context"
	"io"

	"go.trai.ch/cbuild/internal/core/domain"
)

// Executor defines the interface for running external tools.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and waits for it to exit.
	// Tool output is copied to stdout and stderr.
	//
	// It returns an error carrying the exit code if the command exits non-zero.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
