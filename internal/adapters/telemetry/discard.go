package telemetry

import (
	"context"

	"go.trai.ch/cbuild/internal/core/ports"
)

// Discard is a tracer that records nothing. Output written to its spans is
// dropped. Commands that never run tools, like clean, use it.
var Discard ports.Tracer = discardTracer{}

type discardTracer struct{}

func (discardTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, discardSpan{}
}

func (discardTracer) EmitPlan(context.Context, []string) {}

type discardSpan struct{}

func (discardSpan) End() {}

func (discardSpan) RecordError(error) {}

func (discardSpan) SetAttribute(string, any) {}

func (discardSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
