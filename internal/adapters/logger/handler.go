// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/cbuild/internal/ui/output"
	"go.trai.ch/cbuild/internal/ui/style"
)

// PrettyHandler is a slog.Handler for people watching a build. Each record is
// one line: an icon for the level, the message, then key=value attributes.
// The level is read on every record, so a shared *slog.LevelVar changes the
// threshold of existing handlers.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// levelStyle is how records at or above min are printed.
type levelStyle struct {
	min   slog.Level
	icon  string
	color lipgloss.Color
	faint bool
}

// levelStyles is ordered from the most to the least severe level.
var levelStyles = []levelStyle{
	{min: slog.LevelError, icon: style.Cross, color: style.Red},
	{min: slog.LevelWarn, icon: style.Warning, color: style.Yellow},
	{min: LevelNotice, icon: style.Check, color: style.Green},
	{min: slog.LevelInfo, color: style.Slate},
	{min: LevelDetail, icon: style.Prompt, color: style.Slate, faint: true},
}

var debugStyle = levelStyle{color: style.Iris, faint: true}

func styleFor(level slog.Level) levelStyle {
	for _, ls := range levelStyles {
		if level >= ls.min {
			return ls
		}
	}
	return debugStyle
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w, output.Detect),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	ls := styleFor(r.Level)

	var b strings.Builder
	if ls.icon != "" {
		b.WriteString(ls.icon)
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(formatAttr(h.group, attr))
		return true
	})

	line := output.Paint(h.out, b.String(), ls.color)
	if ls.faint {
		line = output.Dim(h.out, line)
	}
	_, err := h.out.WriteString(line + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
