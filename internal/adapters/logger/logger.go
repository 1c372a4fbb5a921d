// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
)

// Custom levels between the slog defaults.
const (
	// LevelDetail is used for tool command lines.
	LevelDetail = slog.Level(-2)
	// LevelNotice is used for unit results.
	LevelNotice = slog.Level(2)
)

// LevelFor returns the lowest level printed at verbosity v.
func LevelFor(v domain.Verbosity) slog.Level {
	switch {
	case v <= domain.VerbositySilence:
		return slog.LevelError
	case v == domain.VerbosityMinimal:
		return slog.LevelWarn
	case v == domain.VerbosityLittle:
		return LevelNotice
	case v == domain.VerbosityAverage:
		return slog.LevelInfo
	case v == domain.VerbosityDetailed:
		return LevelDetail
	default:
		return slog.LevelDebug
	}
}

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer describes an error carrying key-value metadata, like zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain as printed to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	level    *slog.LevelVar
}

// New creates a new Logger instance at the default verbosity.
func New() ports.Logger {
	level := &slog.LevelVar{}
	level.Set(LevelFor(domain.DefaultVerbosity))

	l := &Logger{
		output: os.Stderr,
		level:  level,
	}
	l.logger = slog.New(l.newHandler(os.Stderr))
	return l
}

func (l *Logger) newHandler(w io.Writer) slog.Handler {
	if l.jsonMode {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       l.level,
			ReplaceAttr: replaceLevelNames,
		})
	}
	return NewPrettyHandler(w, &slog.HandlerOptions{
		Level: l.level,
	})
}

// replaceLevelNames gives the custom levels readable names in JSON output.
func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	switch a.Value.Any() {
	case LevelDetail:
		a.Value = slog.StringValue("DETAIL")
	case LevelNotice:
		a.Value = slog.StringValue("NOTICE")
	}
	return a
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler(w))
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.newHandler(l.output))
}

// SetVerbosity changes which levels are printed.
func (l *Logger) SetVerbosity(v domain.Verbosity) {
	l.level.Set(LevelFor(v))
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.log(slog.LevelDebug, msg)
}

// Detail logs a tool command line or similar detail.
func (l *Logger) Detail(msg string) {
	l.log(LevelDetail, msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, msg)
}

// Notice logs a unit result.
func (l *Logger) Notice(msg string) {
	l.log(LevelNotice, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.log(slog.LevelWarn, msg)
}

func (l *Logger) log(level slog.Level, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Log(context.Background(), level, msg)
}

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err.Error())
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the error chain. zerr links contribute their own
// message and metadata; a link without a message passes its metadata on to the
// next one. Joined errors are walked branch by branch. The first error that is
// not a zerr error ends the walk with its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	var walk func(current error)
	walk = func(current error) {
		for current != nil {
			if joined, ok := current.(interface{ Unwrap() []error }); ok {
				for _, branch := range joined.Unwrap() {
					walk(branch)
				}
				return
			}

			m, ok := current.(messager)
			if !ok {
				entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
				pending = nil
				return
			}

			var meta map[string]any
			if md, ok := current.(metadataer); ok {
				meta = md.Metadata()
			}
			if m.Message() == "" {
				pending = mergeMetadata(pending, meta)
			} else {
				entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: mergeMetadata(meta, pending)})
				pending = nil
			}
			current = errors.Unwrap(current)
		}
	}
	walk(err)

	return entries
}

func mergeMetadata(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return dst
}

// formatErrorEntries renders entries as
//
//	Error: <first>
//	       key: value
//
//	  Caused by:
//	    → <next>
//	      key: value
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		head, indent := "    → ", "      "
		if i == 0 {
			head, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
