package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cbuild/cmd/cbuild/commands"
	"go.trai.ch/cbuild/internal/app"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newApp(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger, renderer *mocks.MockRenderer) *app.App {
	return app.New(
		loader,
		mocks.NewMockExecutor(ctrl),
		logger,
		mocks.NewMockCacheStore(ctrl),
		mocks.NewMockChecksummer(ctrl),
		mocks.NewMockSourceResolver(ctrl),
		mocks.NewMockHeaderWriter(ctrl),
		renderer,
		mocks.NewMockWatcher(ctrl),
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger, mocks.NewMockRenderer(ctrl))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the build fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().SetVerbosity(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)
	mockLoader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().SetVerbosity(gomock.Any()).AnyTimes()

	application := newApp(ctrl, mockLoader, mockLogger, renderer)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "--cache-dir", t.TempDir()}, stderr, provider,
		commands.WithUserConfigDir(""))

	assert.Equal(t, 1, exitCode)
}
