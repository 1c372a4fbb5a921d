// Package app implements the application layer for cbuild.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/cbuild/internal/adapters/telemetry"
	"go.trai.ch/cbuild/internal/adapters/watcher"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/cbuild/internal/engine/builder"
	"go.trai.ch/zerr"
)

// TracerName is the instrumentation name of the build spans.
const TracerName = "cbuild"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	store        ports.CacheStore
	checksummer  ports.Checksummer
	resolver     ports.SourceResolver
	header       ports.HeaderWriter
	renderer     ports.Renderer
	watcher      ports.Watcher

	workDir  string
	out      io.Writer
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.CacheStore,
	checksummer ports.Checksummer,
	resolver ports.SourceResolver,
	header ports.HeaderWriter,
	renderer ports.Renderer,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		store:        store,
		checksummer:  checksummer,
		resolver:     resolver,
		header:       header,
		renderer:     renderer,
		watcher:      w,
		workDir:      ".",
		out:          os.Stdout,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithWorkDir sets the directory the project file is searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithOutput sets where listings such as cache dumps are printed.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// Build compiles the named units and their dependencies, or every unit when
// no name is given.
func (a *App) Build(ctx context.Context, targets []string, s domain.Settings) error {
	a.applySettings(s)

	tracer, shutdown := a.startTracing()
	defer shutdown()

	_, err := a.build(ctx, tracer, targets, s)
	return err
}

func (a *App) build(ctx context.Context, tracer ports.Tracer, targets []string, s domain.Settings) (*session, error) {
	sess, err := a.load(s)
	if err != nil {
		return nil, err
	}

	if _, err := a.writeHeader(sess); err != nil {
		return sess, err
	}

	if s.ClearCache {
		if err := a.clearCaches(cacheDir(s)); err != nil {
			return sess, err
		}
	}

	b := builder.New(a.checksummer, a.store, a.resolver, a.executor, tracer, a.logger)
	opts := builder.Options{
		Defaults:     sess.defaults,
		CacheDir:     s.CacheDir,
		ForceRebuild: s.ForceRebuild,
	}

	if len(targets) == 0 {
		err = b.Build(ctx, sess.project.Graph, opts)
	} else {
		err = b.BuildTargets(ctx, sess.project.Graph, targets, opts)
	}
	a.renderer.Flush()
	if err != nil {
		return sess, err
	}

	a.logger.Notice(fmt.Sprintf("build finished (%s mode)", sess.mode))
	return sess, nil
}

// session is a loaded project with the run settings applied.
type session struct {
	project  *domain.Project
	defaults domain.Defaults
	mode     domain.BuildMode
	options  domain.OptionSet
}

func (a *App) load(s domain.Settings) (*session, error) {
	project, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	options, err := domain.ResolveOptions(project.Options, s.Options)
	if err != nil {
		return nil, err
	}

	mode := s.Mode
	if mode == "" {
		mode = project.Defaults.Mode
	}
	if mode == "" {
		mode = domain.ModeDebug
	}
	if s.Mode != "" {
		// An explicit mode switches every unit, including those that pin one.
		for u := range project.Graph.Units() {
			u.Mode = s.Mode
		}
	}

	defaults := project.Defaults
	defaults.Mode = mode
	options.Apply(&defaults)
	if project.Header.Path != "" {
		defaults.Includes = append(defaults.Includes, project.Header.Path)
	}

	return &session{
		project:  project,
		defaults: defaults,
		mode:     mode,
		options:  options,
	}, nil
}

func (a *App) writeHeader(sess *session) (bool, error) {
	spec := sess.project.Header
	if spec.Path == "" {
		return false, nil
	}
	changed, err := a.header.Write(spec, sess.mode, sess.options)
	if err != nil {
		return false, err
	}
	if changed {
		a.logger.Info("wrote configuration header " + spec.Path)
	}
	return changed, nil
}

func (a *App) applySettings(s domain.Settings) {
	a.logger.SetVerbosity(s.Verbosity)
	a.renderer.SetVerbosity(s.Verbosity)
	if j, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		j.SetJSON(s.JSON)
	}
}

// startTracing points the global OpenTelemetry provider at the renderer and
// returns a tracer for one command.
func (a *App) startTracing() (ports.Tracer, func()) {
	bridge := telemetry.NewBridge(a.renderer)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(tp)

	tracer := telemetry.NewOTelTracer(TracerName).WithRenderer(a.renderer)
	return tracer, func() {
		_ = tp.Shutdown(context.Background())
	}
}

// cacheDir returns the directory holding the cache files. Empty settings mean
// the invocation directory.
func cacheDir(s domain.Settings) string {
	if s.CacheDir == "" {
		return "."
	}
	return s.CacheDir
}
