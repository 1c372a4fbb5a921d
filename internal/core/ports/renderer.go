package ports

import (
	"time"

	"go.trai.ch/cbuild/internal/core/domain"
)

// Renderer turns span events into console output.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once the build order is known.
	// units: unit names in build order
	OnPlanEmit(units []string)

	// OnTaskStart is called when a unit build or tool invocation begins.
	// spanID: unique identifier for this step
	// parentID: spanID of the enclosing step (empty if root)
	// name: human-readable step name
	// startTime: when the step started
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a tool emits output.
	// spanID: identifier for the step
	// data: raw log bytes (may contain partial lines or ANSI sequences)
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a step finishes.
	// spanID: identifier for the step
	// endTime: when the step completed
	// err: nil if successful, error otherwise
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// Flush writes any buffered partial lines.
	Flush()

	// SetVerbosity changes which step events are printed.
	SetVerbosity(v domain.Verbosity)
}
