// Package shell provides adapters for running external build tools.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. In PTY mode tools are
// attached to a pseudo terminal so compilers keep their colored diagnostics.
type Executor struct {
	usePTY bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithPTY forces the PTY mode on or off.
func WithPTY(enabled bool) Option {
	return func(e *Executor) {
		e.usePTY = enabled
	}
}

// NewExecutor creates a new Executor. Tools write to plain pipes unless
// WithPTY enables a terminal.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, command domain.Command, stdout, stderr io.Writer) error {
	if len(command.Args) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "failed to run tool"), "dir", command.Dir)
	}

	name := command.Args[0]
	env := resolveEnvironment(os.Environ(), command.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, command.Args[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = command.Dir
	cmd.Env = env

	var err error
	if e.usePTY {
		err = runPTY(cmd, stdout)
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		err = cmd.Run()
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitErr.ExitCode())
	}
	return zerr.With(zerr.Wrap(err, "failed to start command"), "command", name)
}

// runPTY runs cmd on a pseudo terminal. The PTY merges both output streams
// into stdout.
func runPTY(cmd *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(stdout, ptmx)
	}()

	err = cmd.Wait()
	// The copy ends once the slave side is closed and the buffer is drained.
	<-ioDone
	_ = ptmx.Close()
	return err
}

// resolveEnvironment overlays the unit environment on the inherited one.
// Tools see the environment the user runs cbuild with; unit values win.
func resolveEnvironment(sysEnv []string, unitEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(unitEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		envMap[k] = v
	}
	for k, v := range unitEnv {
		envMap[k] = v
	}

	env := make([]string, 0, len(envMap))
	for k, v := range envMap {
		env = append(env, k+"="+v)
	}
	return env
}

// lookPath searches for an executable in the PATH of the given environment
// rather than the PATH of the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
