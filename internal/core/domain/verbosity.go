package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Verbosity selects how much progress output a build prints.
type Verbosity int

const (
	// VerbositySilence prints errors only.
	VerbositySilence Verbosity = iota
	// VerbosityMinimal adds warnings.
	VerbosityMinimal
	// VerbosityLittle adds one line per unit.
	VerbosityLittle
	// VerbosityAverage adds one line per compiled source.
	VerbosityAverage
	// VerbosityDetailed adds tool command lines and step timings.
	VerbosityDetailed
	// VerbosityDebug adds unit summaries and cache dumps.
	VerbosityDebug
)

// DefaultVerbosity is used when nothing else is configured.
const DefaultVerbosity = VerbosityAverage

var verbosityNames = [...]string{"silence", "minimal", "little", "average", "detailed", "debug"}

// String returns the tier name.
func (v Verbosity) String() string {
	if v < VerbositySilence || v > VerbosityDebug {
		return strconv.Itoa(int(v))
	}
	return verbosityNames[v]
}

// ParseVerbosity accepts a tier number (0-5) or a tier name.
func ParseVerbosity(s string) (Verbosity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(VerbositySilence) || n > int(VerbosityDebug) {
			return 0, zerr.With(zerr.Wrap(ErrInvalidVerbosity, "failed to parse verbosity"), "value", s)
		}
		return Verbosity(n), nil
	}
	for i, name := range verbosityNames {
		if name == s {
			return Verbosity(i), nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrInvalidVerbosity, "failed to parse verbosity"), "value", s)
}
