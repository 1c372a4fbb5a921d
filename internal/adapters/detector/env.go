// Package detector inspects the process environment to decide how external
// tools are attached to the terminal.
package detector

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// TTYEnvVar overrides the detected terminal mode: "pty" or "pipe".
const TTYEnvVar = "CBUILD_TTY"

// TerminalMode represents how tool output is captured.
type TerminalMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto TerminalMode = iota
	// ModePTY runs tools on a pseudo terminal so they keep colored diagnostics.
	ModePTY
	// ModePipe runs tools with plain pipes, keeping stdout and stderr apart.
	ModePipe
)

// DetectEnvironment returns the recommended mode based on the environment.
// It checks if stderr is a TTY and if CI environment variables are set.
func DetectEnvironment() TerminalMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int
	return detect(isTTY, os.Getenv("CI"))
}

func detect(isTTY bool, ci string) TerminalMode {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return ModePipe
	}
	return ModePTY
}

// ResolveMode applies a user override to auto-detection.
// userFlag should be one of: "auto", "pty", "pipe", or empty.
func ResolveMode(autoDetected TerminalMode, userFlag string) TerminalMode {
	switch strings.ToLower(strings.TrimSpace(userFlag)) {
	case "pty", "always":
		return ModePTY
	case "pipe", "never":
		return ModePipe
	default:
		return autoDetected
	}
}

// UsePTY resolves the terminal mode for the current process.
func UsePTY() bool {
	return ResolveMode(DetectEnvironment(), os.Getenv(TTYEnvVar)) == ModePTY
}
