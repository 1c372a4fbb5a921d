package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/cbuild/internal/adapters/telemetry"
	"go.trai.ch/cbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_StatusBecomesError(t *testing.T) {
	tests := []struct {
		name    string
		code    codes.Code
		desc    string
		wantErr string
	}{
		{name: "ok", code: codes.Ok},
		{name: "error with description", code: codes.Error, desc: "exit status 2", wantErr: "exit status 2"},
		{name: "error without description", code: codes.Error, wantErr: "link app failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := newRecordingRenderer()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
			defer func() { _ = tp.Shutdown(context.Background()) }()

			_, span := tp.Tracer("test").Start(context.Background(), "link app")
			span.SetStatus(tt.code, tt.desc)
			span.End()

			assert.Equal(t, []string{"link app"}, renderer.started)
			require.Len(t, renderer.errs, 1)
			if tt.wantErr == "" {
				assert.NoError(t, renderer.errs[0])
				return
			}
			require.Error(t, renderer.errs[0])
			assert.Equal(t, tt.wantErr, renderer.errs[0].Error())
		})
	}
}

func TestBridge_NilRenderer(t *testing.T) {
	bridge := telemetry.NewBridge(nil)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))

	_, span := tp.Tracer("test").Start(context.Background(), "core")
	span.End()

	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestBridge_ShutdownFlushesRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Flush().Times(2)

	bridge := telemetry.NewBridge(renderer)
	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.Discard.Start(ctx, "core")
	assert.Equal(t, ctx, got)

	n, err := span.Write([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	span.SetAttribute("unit", "core")
	span.RecordError(assert.AnError)
	span.End()
	telemetry.Discard.EmitPlan(ctx, []string{"core"})
}
