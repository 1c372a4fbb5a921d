// Package output creates termenv outputs for the console adapters.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects how an output picks its color profile.
type Mode int

const (
	// Detect reads the terminal capabilities from the environment.
	Detect Mode = iota
	// Force writes basic ANSI colors even to pipes, so CI logs keep them.
	Force
)

// NoColor reports whether the NO_COLOR convention is in effect.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Profile returns the color profile for mode. NO_COLOR wins over every mode.
func Profile(mode Mode) termenv.Profile {
	switch {
	case NoColor():
		return termenv.Ascii
	case mode == Force:
		return termenv.ANSI
	default:
		return termenv.EnvColorProfile()
	}
}

// New returns an output writing to w with the profile of mode.
// A nil w writes to stderr.
func New(w io.Writer, mode Mode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(mode)), termenv.WithTTY(true))
}

// Paint renders text in c. Under the Ascii profile text is returned unchanged.
func Paint(o *termenv.Output, text string, c lipgloss.Color) string {
	return o.String(text).Foreground(o.Color(string(c))).String()
}

// Dim renders text faint.
func Dim(o *termenv.Output, text string) string {
	return o.String(text).Faint().String()
}
