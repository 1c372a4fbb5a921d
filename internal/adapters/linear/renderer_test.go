package linear_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cbuild/internal/adapters/linear"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func newRenderer(t *testing.T, v domain.Verbosity) (r *linear.Renderer, stdout, stderr *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)
	r = linear.NewRenderer(stdout, stderr)
	r.SetVerbosity(v)
	return r, stdout, stderr
}

func TestRenderer_UnitLifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer(t, domain.VerbosityDetailed)

	r.OnPlanEmit([]string{"core", "app"})
	assert.Equal(t, "Planning to build 2 unit(s): core, app\n", stderr.String())
	stderr.Reset()

	start := time.Now()
	r.OnTaskStart("unit", "", "core", start)
	r.OnTaskStart("tool", "unit", "a.cc", start)

	r.OnTaskLog("tool", []byte("a.cc:3: warning: unused variable\n"))
	r.OnTaskLog("tool", []byte("second line\n"))
	assert.Equal(t, "[core] a.cc:3: warning: unused variable\n[core] second line\n", stdout.String())

	r.OnTaskComplete("tool", start.Add(120*time.Millisecond), nil)
	r.OnTaskComplete("unit", start.Add(300*time.Millisecond), nil)

	assert.Equal(t, "[core] ✓ a.cc in 120ms\n[core] ✓ core in 300ms\n", stderr.String())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t, domain.DefaultVerbosity)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)

	r.OnTaskLog("span1", []byte("partial"))
	if strings.Contains(stdout.String(), "partial") {
		t.Errorf("Partial line should not be printed immediately")
	}

	r.OnTaskLog("span1", []byte(" line\nnext"))
	assert.Equal(t, "[core] partial line\n", stdout.String())

	r.OnTaskComplete("span1", start.Add(50*time.Millisecond), nil)
	assert.Equal(t, "[core] partial line\n[core] next\n", stdout.String())
}

func TestRenderer_Failure(t *testing.T) {
	r, stdout, stderr := newRenderer(t, domain.VerbosityMinimal)

	start := time.Now()
	r.OnTaskStart("unit", "", "core", start)
	r.OnTaskStart("tool", "unit", "a.cc", start)
	r.OnTaskLog("tool", []byte("a.cc:1: error: expected ';'\n"))
	r.OnTaskComplete("tool", start.Add(50*time.Millisecond), zerr.New("exit status 1"))

	assert.Equal(t, "[core] a.cc:1: error: expected ';'\n", stdout.String())
	assert.Equal(t, "[core] ✗ a.cc failed after 50ms: exit status 1\n", stderr.String())
}

func TestRenderer_VerbosityGating(t *testing.T) {
	tests := []struct {
		name        string
		verbosity   domain.Verbosity
		wantPlan    bool
		wantStart   bool
		wantSuccess bool
		wantFailure bool
	}{
		{name: "silence", verbosity: domain.VerbositySilence},
		{name: "minimal", verbosity: domain.VerbosityMinimal, wantFailure: true},
		{name: "average", verbosity: domain.VerbosityAverage, wantFailure: true},
		{name: "detailed", verbosity: domain.VerbosityDetailed, wantPlan: true, wantSuccess: true, wantFailure: true},
		{name: "debug", verbosity: domain.VerbosityDebug, wantPlan: true, wantStart: true, wantSuccess: true, wantFailure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newRenderer(t, tt.verbosity)
			start := time.Now()

			r.OnPlanEmit([]string{"ok", "bad"})
			r.OnTaskStart("ok", "", "ok", start)
			r.OnTaskLog("ok", []byte("tool says hi\n"))
			r.OnTaskComplete("ok", start, nil)
			r.OnTaskStart("bad", "", "bad", start)
			r.OnTaskComplete("bad", start, zerr.New("boom"))

			out := stderr.String()
			assert.Equal(t, tt.wantPlan, strings.Contains(out, "Planning"))
			assert.Equal(t, tt.wantStart, strings.Contains(out, "ok started"))
			assert.Equal(t, tt.wantSuccess, strings.Contains(out, "✓ ok"))
			assert.Equal(t, tt.wantFailure, strings.Contains(out, "✗ bad failed"))
			assert.Equal(t, "[ok] tool says hi\n", stdout.String(), "tool output is never suppressed")
		})
	}
}

func TestRenderer_InterleavedSteps(t *testing.T) {
	r, stdout, _ := newRenderer(t, domain.DefaultVerbosity)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)
	r.OnTaskStart("span2", "", "app", start)

	r.OnTaskLog("span1", []byte("core line 1\n"))
	r.OnTaskLog("span2", []byte("app line 1\n"))
	r.OnTaskLog("span1", []byte("core line 2\n"))

	assert.Equal(t, "[core] core line 1\n[app] app line 1\n[core] core line 2\n", stdout.String())
}

func TestRenderer_Colors(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)
	r.SetVerbosity(domain.VerbosityDetailed)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)
	r.OnTaskComplete("span1", start, nil)

	if !strings.Contains(stderr.String(), "\x1b[") {
		t.Errorf("Expected ANSI codes in status line, got: %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "\x1b[") {
		t.Errorf("Tool output prefix must stay plain, got: %q", stdout.String())
	}
}

func TestRenderer_NoColor(t *testing.T) {
	r, _, stderr := newRenderer(t, domain.VerbosityDetailed)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)
	r.OnTaskComplete("span1", start.Add(50*time.Millisecond), nil)

	if strings.Contains(stderr.String(), "\x1b[") {
		t.Errorf("Expected no ANSI codes with NO_COLOR, got: %s", stderr.String())
	}
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer(t, domain.VerbosityDebug)

	r.OnTaskLog("unknown-span", []byte("should be ignored\n"))
	r.OnTaskComplete("unknown-span", time.Now(), nil)

	assert.Zero(t, stdout.Len())
	assert.Zero(t, stderr.Len())
}

func TestRenderer_EmptyLines(t *testing.T) {
	r, stdout, _ := newRenderer(t, domain.DefaultVerbosity)

	r.OnTaskStart("span1", "", "core", time.Now())
	r.OnTaskLog("span1", []byte("\n"))
	r.OnTaskLog("span1", []byte("\r\n"))

	assert.Zero(t, stdout.Len())
}

func TestRenderer_FlushWritesPartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t, domain.DefaultVerbosity)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)
	r.OnTaskStart("span2", "", "app", start)
	r.OnTaskLog("span1", []byte("partial1"))
	r.OnTaskLog("span2", []byte("partial2"))

	r.Flush()

	assert.Contains(t, stdout.String(), "[core] partial1\n")
	assert.Contains(t, stdout.String(), "[app] partial2\n")
}

func TestRenderer_NilWriters(_ *testing.T) {
	r := linear.NewRenderer(nil, nil)

	start := time.Now()
	r.OnTaskStart("span1", "", "core", start)
	r.OnTaskComplete("span1", start.Add(time.Second), nil)
}
