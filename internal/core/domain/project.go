package domain

import "strings"

// HeaderSpec describes the generated configuration header.
type HeaderSpec struct {
	// Path is where the header is written. Empty disables generation.
	Path string
	// Includes are emitted as #include lines after the banner.
	Includes []string
}

// Project is everything loaded from the project file.
type Project struct {
	Root     string
	Defaults Defaults
	Header   HeaderSpec
	Options  []Option
	Graph    *Graph
}

// Settings are per-invocation choices layered from flags, environment and user config.
type Settings struct {
	Verbosity    Verbosity
	Mode         BuildMode
	JSON         bool
	ForceRebuild bool
	ClearCache   bool
	CacheDir     string
	Options      []string
}

// Command is one external tool invocation.
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}
