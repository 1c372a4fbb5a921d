package config

// SupportedVersion is the only project file version understood by the loader.
// An empty version is read as the current one.
const SupportedVersion = "1"

// Projectfile represents the structure of the cbuild.yaml project file.
type Projectfile struct {
	Version  string      `yaml:"version"`
	Defaults DefaultsDTO `yaml:"defaults"`
	Header   HeaderDTO   `yaml:"header"`
	Options  []OptionDTO `yaml:"options"`
	Units    []UnitDTO   `yaml:"units"`
}

// DefaultsDTO holds the project-wide settings merged into every unit.
type DefaultsDTO struct {
	Compiler     string   `yaml:"compiler"`
	Archiver     string   `yaml:"archiver"`
	ObjectDir    string   `yaml:"objdir"`
	Mode         string   `yaml:"mode"`
	Glob         bool     `yaml:"glob"`
	Extensions   []string `yaml:"extensions"`
	IncludePaths []string `yaml:"include_paths"`
	LibraryPaths []string `yaml:"library_paths"`
	Flags        []string `yaml:"flags"`
	LDFlags      []string `yaml:"ldflags"`
	Libraries    []string `yaml:"libs"`
	Defines      []string `yaml:"defines"`
	Includes     []string `yaml:"includes"`
}

// HeaderDTO configures the generated build configuration header.
type HeaderDTO struct {
	Path     string   `yaml:"path"`
	Includes []string `yaml:"includes"`
}

// OptionDTO declares a build option that can be toggled on the command line.
type OptionDTO struct {
	Name        string   `yaml:"name"`
	Define      string   `yaml:"define"`
	Description string   `yaml:"description"`
	Kind        string   `yaml:"kind"`
	Default     string   `yaml:"default"`
	Flags       []string `yaml:"flags"`
	LDFlags     []string `yaml:"ldflags"`
	Libraries   []string `yaml:"libs"`
	Compiler    bool     `yaml:"compiler"`
	Conflicts   []string `yaml:"conflicts"`
}

// UnitDTO represents a unit definition. Units are a list so that declaration
// order, which decides the build order of siblings, survives parsing.
type UnitDTO struct {
	Name         string             `yaml:"name"`
	Type         string             `yaml:"type"`
	Mode         string             `yaml:"mode"`
	Compiler     string             `yaml:"compiler"`
	Archiver     string             `yaml:"archiver"`
	Target       string             `yaml:"target"`
	TargetPath   string             `yaml:"target_path"`
	ObjectDir    string             `yaml:"objdir"`
	DependsOn    []string           `yaml:"depends_on"`
	Flags        []string           `yaml:"flags"`
	LDFlags      []string           `yaml:"ldflags"`
	Libraries    []string           `yaml:"libs"`
	LibraryPaths []string           `yaml:"library_paths"`
	IncludePaths []string           `yaml:"include_paths"`
	Defines      []string           `yaml:"defines"`
	Includes     []string           `yaml:"includes"`
	Extensions   []string           `yaml:"extensions"`
	Sources      []string           `yaml:"sources"`
	SourcePaths  []string           `yaml:"source_paths"`
	Glob         *bool              `yaml:"glob"`
	Env          map[string]string  `yaml:"env"`
	Modes        map[string]ModeDTO `yaml:"modes"`
}

// ModeDTO holds unit settings that only apply in one build mode.
type ModeDTO struct {
	Target  string   `yaml:"target"`
	Flags   []string `yaml:"flags"`
	LDFlags []string `yaml:"ldflags"`
	Defines []string `yaml:"defines"`
}
