package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/cmd/cbuild/commands"
	"go.trai.ch/cbuild/internal/build"
	"go.trai.ch/cbuild/internal/core/domain"
)

type call struct {
	name     string
	targets  []string
	settings domain.Settings
}

type mockApp struct {
	calls []call
	err   error
}

func (m *mockApp) record(name string, targets []string, s domain.Settings) error {
	m.calls = append(m.calls, call{name: name, targets: targets, settings: s})
	return m.err
}

func (m *mockApp) Build(_ context.Context, targets []string, s domain.Settings) error {
	return m.record("build", targets, s)
}

func (m *mockApp) Clean(_ context.Context, s domain.Settings) error {
	return m.record("clean", nil, s)
}

func (m *mockApp) ShowCache(_ context.Context, s domain.Settings) error {
	return m.record("cache show", nil, s)
}

func (m *mockApp) ClearCache(_ context.Context, s domain.Settings) error {
	return m.record("cache clear", nil, s)
}

func (m *mockApp) Configure(_ context.Context, s domain.Settings) error {
	return m.record("config", nil, s)
}

func (m *mockApp) ListOptions(_ context.Context, s domain.Settings) error {
	return m.record("config list", nil, s)
}

func (m *mockApp) Watch(_ context.Context, targets []string, s domain.Settings) error {
	return m.record("watch", targets, s)
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m, commands.WithUserConfigDir(""))
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Dispatch(t *testing.T) {
	tests := []struct {
		args        []string
		wantName    string
		wantTargets []string
	}{
		{args: nil, wantName: "build"},
		{args: []string{"build"}, wantName: "build"},
		{args: []string{"build", "app", "core"}, wantName: "build", wantTargets: []string{"app", "core"}},
		{args: []string{"clean"}, wantName: "clean"},
		{args: []string{"cache", "show"}, wantName: "cache show"},
		{args: []string{"cache", "clear"}, wantName: "cache clear"},
		{args: []string{"config"}, wantName: "config"},
		{args: []string{"config", "--list"}, wantName: "config list"},
		{args: []string{"watch", "app"}, wantName: "watch", wantTargets: []string{"app"}},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, tt.args...)
			require.NoError(t, err)
			require.Len(t, m.calls, 1)
			assert.Equal(t, tt.wantName, m.calls[0].name)
			if tt.wantTargets != nil {
				assert.Equal(t, tt.wantTargets, m.calls[0].targets)
			}
			assert.Equal(t, domain.DefaultVerbosity, m.calls[0].settings.Verbosity)
		})
	}
}

func TestCommands_FlagsBecomeSettings(t *testing.T) {
	m := &mockApp{}
	cacheDir := t.TempDir()
	_, err := execute(t, m, "build", "-v", "detailed", "--mode", "Release", "--json",
		"-f", "--clear-cache", "--cache-dir", cacheDir, "-O", "USING_LOG", "-O", "SET_COMPILER=clang++")
	require.NoError(t, err)
	require.Len(t, m.calls, 1)

	assert.Equal(t, domain.Settings{
		Verbosity:    domain.VerbosityDetailed,
		Mode:         domain.ModeRelease,
		JSON:         true,
		ForceRebuild: true,
		ClearCache:   true,
		CacheDir:     cacheDir,
		Options:      []string{"USING_LOG", "SET_COMPILER=clang++"},
	}, m.calls[0].settings)
}

func TestCommands_EnvironmentSettings(t *testing.T) {
	t.Setenv("CBUILD_FORCE_REBUILD", "true")
	t.Setenv("CBUILD_VERBOSITY", "1")

	m := &mockApp{}
	_, err := execute(t, m, "clean")
	require.NoError(t, err)
	require.Len(t, m.calls, 1)
	assert.True(t, m.calls[0].settings.ForceRebuild)
	assert.Equal(t, domain.VerbosityMinimal, m.calls[0].settings.Verbosity)
}

func TestCommands_UserConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cbuild"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cbuild", "config.yaml"), []byte("mode: release\n"), 0o600))

	m := &mockApp{}
	cli := commands.New(m, commands.WithUserConfigDir(dir))
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"build"})
	require.NoError(t, cli.Execute(context.Background()))

	require.Len(t, m.calls, 1)
	assert.Equal(t, domain.ModeRelease, m.calls[0].settings.Mode)
}

func TestCommands_Errors(t *testing.T) {
	t.Run("invalid verbosity never reaches the app", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "-v", "loud")
		require.ErrorIs(t, err, domain.ErrInvalidVerbosity)
		assert.Empty(t, m.calls)
	})

	t.Run("invalid mode never reaches the app", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "--mode", "fast")
		require.ErrorIs(t, err, domain.ErrInvalidBuildMode)
		assert.Empty(t, m.calls)
	})

	t.Run("app failure is returned", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "build", "app")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("clean takes no arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "clean", "app")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_CacheShowsUsage(t *testing.T) {
	m := &mockApp{}
	out, err := execute(t, m, "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, m.calls)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cbuild version "+build.Version)
	assert.Contains(t, out, "commit: "+build.Commit)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}

func TestCommands_VersionShort(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)
}
