package logger_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/internal/adapters/logger"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Messages(t *testing.T) {
	tests := []struct {
		name       string
		log        func(lg *logger.Logger)
		goldenName string
	}{
		{
			name:       "simple message",
			log:        func(lg *logger.Logger) { lg.Info("some message") },
			goldenName: "info_basic",
		},
		{
			name:       "empty message",
			log:        func(lg *logger.Logger) { lg.Info("") },
			goldenName: "info_empty",
		},
		{
			name:       "multiline message",
			log:        func(lg *logger.Logger) { lg.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "notice",
			log:        func(lg *logger.Logger) { lg.Notice("app: built bin/app") },
			goldenName: "notice_basic",
		},
		{
			name:       "warning",
			log:        func(lg *logger.Logger) { lg.Warn("some warning") },
			goldenName: "warn_basic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name:       "configuration chain",
			err:        zerr.With(zerr.Wrap(domain.ErrNoSources, "failed to prepare unit"), "unit", "app"),
			goldenName: "error_chain",
		},
		{
			name: "tool failure",
			err: zerr.With(zerr.With(errors.Join(domain.ErrCompileFailed, errors.New("exit status 1")),
				"unit", "app"), "source", "src/a.cc"),
			goldenName: "error_tool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_Verbosity(t *testing.T) {
	logAll := func(lg *logger.Logger) {
		lg.Debug("debug")
		lg.Detail("detail")
		lg.Info("info")
		lg.Notice("notice")
		lg.Warn("warn")
		lg.Error(errors.New("error"))
	}

	tests := []struct {
		verbosity domain.Verbosity
		want      []string
		hidden    []string
	}{
		{domain.VerbositySilence, []string{"error"}, []string{"warn", "notice", "info"}},
		{domain.VerbosityMinimal, []string{"warn", "error"}, []string{"notice", "info"}},
		{domain.VerbosityLittle, []string{"notice", "warn"}, []string{"info", "detail"}},
		{domain.VerbosityAverage, []string{"info", "notice"}, []string{"detail", "debug"}},
		{domain.VerbosityDetailed, []string{"detail", "info"}, []string{"debug"}},
		{domain.VerbosityDebug, []string{"debug", "detail", "info", "notice", "warn", "error"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.verbosity.String(), func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.SetVerbosity(tt.verbosity)
			logAll(lg)

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, h := range tt.hidden {
				assert.NotContains(t, out, h+"\n")
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.SetVerbosity(domain.VerbosityDetailed)

	lg.Notice("unit done")
	lg.Detail("g++ -c a.cc")
	lg.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"level":"NOTICE"`)
	assert.Contains(t, out, `"level":"DETAIL"`)
	assert.Contains(t, out, `"msg":"unit done"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestLogger_SetOutputKeepsVerbosity(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetVerbosity(domain.VerbositySilence)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hidden")
	require.Empty(t, buf.String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, logger.LevelNotice, logger.LevelFor(domain.VerbosityLittle))
	assert.Equal(t, logger.LevelDetail, logger.LevelFor(domain.VerbosityDetailed))
	assert.Equal(t, logger.LevelFor(domain.VerbosityDebug), logger.LevelFor(domain.Verbosity(9)))
}
