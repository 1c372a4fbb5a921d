package telemetry_test

import (
	"sync"
	"time"

	"go.trai.ch/cbuild/internal/core/domain"
)

// recordingRenderer is a simple test double for ports.Renderer.
type recordingRenderer struct {
	mu       sync.Mutex
	plan     []string
	started  []string
	logs     map[string][]byte
	complete []string
	errs     []error
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{logs: make(map[string][]byte)}
}

func (r *recordingRenderer) OnPlanEmit(units []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan = units
}

func (r *recordingRenderer) OnTaskStart(_, _, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, name)
}

func (r *recordingRenderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[spanID] = append(r.logs[spanID], data...)
}

func (r *recordingRenderer) OnTaskComplete(spanID string, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete = append(r.complete, spanID)
	r.errs = append(r.errs, err)
}

func (r *recordingRenderer) Flush() {}

func (r *recordingRenderer) SetVerbosity(_ domain.Verbosity) {}
