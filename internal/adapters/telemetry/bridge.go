package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bridge implements sdktrace.SpanProcessor and forwards span lifecycle
// events to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge. A nil renderer turns it into a no-op.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanContextFromContext(parent); p.IsValid() {
		parentID = p.SpanID().String()
	}

	b.renderer.OnTaskStart(s.SpanContext().SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd is called when a span ends. A span with an error status is reported
// as failed using the status description.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var err error
	if status := s.Status(); status.Code == codes.Error {
		desc := status.Description
		if desc == "" {
			desc = s.Name() + " failed"
		}
		err = zerr.New(desc)
	}

	b.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), err)
}

// ForceFlush writes out any partial output line held by the renderer.
func (b *Bridge) ForceFlush(_ context.Context) error {
	if b.renderer != nil {
		b.renderer.Flush()
	}
	return nil
}

// Shutdown flushes the renderer.
func (b *Bridge) Shutdown(ctx context.Context) error {
	return b.ForceFlush(ctx)
}
