// Package linear provides a synchronous, line-buffered renderer for build steps.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/ui/output"
	"go.trai.ch/cbuild/internal/ui/style"
)

// Renderer implements ports.Renderer. It prints tool output prefixed with the
// owning unit and one status line per finished step.
//
// Tool output is always printed since it carries compiler diagnostics. Step
// status lines follow the verbosity: failures from minimal, completions and the
// build plan from detailed, step starts at debug.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu        sync.Mutex
	verbosity domain.Verbosity
	steps     map[string]*step // spanID -> step
}

type step struct {
	name      string
	unit      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to the process
// stdout and stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:    stdout,
		stderr:    stderr,
		output:    output.New(stderr, output.Force),
		verbosity: domain.DefaultVerbosity,
		steps:     make(map[string]*step),
	}
}

// SetVerbosity changes which step events are printed.
func (r *Renderer) SetVerbosity(v domain.Verbosity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbosity = v
}

// OnPlanEmit prints the build order.
func (r *Renderer) OnPlanEmit(units []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.verbosity < domain.VerbosityDetailed {
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d unit(s): %s\n", len(units), strings.Join(units, ", "))
}

// OnTaskStart registers a step. Tool steps inherit the unit of their parent.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &step{name: name, unit: name, startTime: startTime}
	if parent, ok := r.steps[parentID]; ok {
		s.unit = parent.unit
	}
	r.steps[spanID] = s

	if r.verbosity >= domain.VerbosityDebug {
		_, _ = fmt.Fprintf(r.stderr, "%s %s started\n", r.prefix(s.unit), name)
	}
}

// OnTaskLog buffers tool output and prints complete lines with the unit prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.steps[spanID]
	if !ok {
		return
	}

	s.buf.Write(data)
	for {
		i := bytes.IndexByte(s.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := s.buf.Next(i + 1)
		r.printLineLocked(s.unit, line)
	}
}

// OnTaskComplete flushes the step's partial line and prints its status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.steps[spanID]
	if !ok {
		return
	}
	r.flushStepLocked(s)
	delete(r.steps, spanID)

	duration := endTime.Sub(s.startTime).Round(time.Millisecond)
	switch {
	case err != nil && r.verbosity >= domain.VerbosityMinimal:
		symbol := output.Paint(r.output, style.Cross, style.Red)
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s failed after %v: %v\n", r.prefix(s.unit), symbol, s.name, duration, err)
	case err == nil && r.verbosity >= domain.VerbosityDetailed:
		symbol := output.Paint(r.output, style.Check, style.Green)
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s in %v\n", r.prefix(s.unit), symbol, s.name, duration)
	}
}

// Flush prints every buffered partial line.
func (r *Renderer) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.steps {
		r.flushStepLocked(s)
	}
}

func (r *Renderer) prefix(unit string) string {
	return output.Dim(r.output, "["+unit+"]")
}

// flushStepLocked must be called with r.mu held.
func (r *Renderer) flushStepLocked(s *step) {
	if s.buf.Len() > 0 {
		r.printLineLocked(s.unit, s.buf.Bytes())
		s.buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(unit string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", unit, line)
}
