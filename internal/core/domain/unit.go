package domain

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BuildMode selects between debug and release flag sets.
type BuildMode string

const (
	// ModeDebug builds with debug flags.
	ModeDebug BuildMode = "debug"
	// ModeRelease builds with release flags.
	ModeRelease BuildMode = "release"
)

// Valid reports whether m is a known mode.
func (m BuildMode) Valid() bool {
	return m == ModeDebug || m == ModeRelease
}

// BuildType is the kind of artifact a unit produces.
type BuildType string

const (
	// TypeExecutable links a program.
	TypeExecutable BuildType = "executable"
	// TypeShared links a shared library named lib<target>.so.
	TypeShared BuildType = "shared"
	// TypeStatic archives a static library named lib<target>.a.
	TypeStatic BuildType = "static"
)

// Valid reports whether t is a known build type.
func (t BuildType) Valid() bool {
	switch t {
	case TypeExecutable, TypeShared, TypeStatic:
		return true
	default:
		return false
	}
}

// ModeOverlay holds unit settings that only apply in one build mode.
type ModeOverlay struct {
	Target  string
	Flags   []string
	LDFlags []string
	Defines []string
}

// Defaults are project-wide settings merged into every unit during preparation.
// Scalars fill unset unit fields; path and flag lists are appended.
type Defaults struct {
	Compiler     string
	Archiver     string
	ObjectDir    string
	Mode         BuildMode
	Glob         bool
	Extensions   []string
	IncludePaths []string
	LibraryPaths []string
	Flags        []string
	LDFlags      []string
	Libraries    []string
	Defines      []string
	Includes     []string
}

// Unit is one buildable artifact: an executable, a shared library or a static library.
type Unit struct {
	Name         string
	Mode         BuildMode
	Type         BuildType
	Compiler     string
	Archiver     string
	Target       string
	TargetPath   string
	ObjectDir    string
	Dependencies []string
	Flags        []string
	LDFlags      []string
	Libraries    []string
	LibraryPaths []string
	IncludePaths []string
	Defines      []string
	Includes     []string
	Extensions   []string
	Sources      []string
	SourcePaths  []string
	// Glob scans SourcePaths for Extensions when true. Nil inherits the default.
	Glob  *bool
	Env   map[string]string
	Modes map[BuildMode]ModeOverlay

	// Objects is derived during preparation and paired index for index with Sources.
	Objects []string

	// Built records that this run produced, or confirmed, an up-to-date target.
	Built bool
}

var validUnitName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Effective returns a copy of u with the defaults and the overlay for the
// effective mode merged in. u itself is left untouched so preparation can run
// again on every rebuild.
func (u *Unit) Effective(d Defaults) *Unit {
	e := u.clone()

	if e.Compiler == "" {
		e.Compiler = d.Compiler
	}
	if e.Archiver == "" {
		e.Archiver = d.Archiver
	}
	if e.Archiver == "" {
		e.Archiver = DefaultArchiver
	}
	if e.ObjectDir == "" {
		e.ObjectDir = d.ObjectDir
	}
	if e.Mode == "" {
		e.Mode = d.Mode
	}
	if len(e.Extensions) == 0 {
		e.Extensions = slices.Clone(d.Extensions)
	}
	if e.Glob == nil {
		glob := d.Glob
		e.Glob = &glob
	}

	e.IncludePaths = append(e.IncludePaths, d.IncludePaths...)
	e.LibraryPaths = append(e.LibraryPaths, d.LibraryPaths...)
	e.Flags = append(e.Flags, d.Flags...)
	e.LDFlags = append(e.LDFlags, d.LDFlags...)
	e.Libraries = append(e.Libraries, d.Libraries...)
	e.Defines = append(e.Defines, d.Defines...)
	e.Includes = append(e.Includes, d.Includes...)

	if overlay, ok := e.Modes[e.Mode]; ok {
		if overlay.Target != "" {
			e.Target = overlay.Target
		}
		e.Flags = append(e.Flags, overlay.Flags...)
		e.LDFlags = append(e.LDFlags, overlay.LDFlags...)
		e.Defines = append(e.Defines, overlay.Defines...)
	}

	e.Extensions = NormalizeExtensions(e.Extensions)
	return e
}

// Validate checks the fields required before any source is resolved.
func (u *Unit) Validate() error {
	if !validUnitName.MatchString(u.Name) {
		return zerr.With(zerr.Wrap(ErrInvalidUnitName, "invalid unit"), "unit", u.Name)
	}
	if !u.Mode.Valid() {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidBuildMode, "invalid unit"), "unit", u.Name), "mode", string(u.Mode))
	}
	if !u.Type.Valid() {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidBuildType, "invalid unit"), "unit", u.Name), "type", string(u.Type))
	}
	if u.Compiler == "" {
		return zerr.With(zerr.Wrap(ErrMissingCompiler, "invalid unit"), "unit", u.Name)
	}
	if u.ObjectDir == "" {
		return zerr.With(zerr.Wrap(ErrMissingObjectDir, "invalid unit"), "unit", u.Name)
	}
	if u.Target == "" {
		return zerr.With(zerr.Wrap(ErrMissingTarget, "invalid unit"), "unit", u.Name)
	}
	return nil
}

// GlobEnabled reports whether source search paths are scanned.
func (u *Unit) GlobEnabled() bool {
	return u.Glob != nil && *u.Glob
}

// ObjectFor returns the object path compiled from src: the base name with its
// extension replaced by .o, rooted at the object directory.
func (u *Unit) ObjectFor(src string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(u.ObjectDir, base+ObjectExt)
}

// DeriveObjects fills Objects so that Objects[i] is compiled from Sources[i].
func (u *Unit) DeriveObjects() {
	u.Objects = make([]string, len(u.Sources))
	for i, src := range u.Sources {
		u.Objects[i] = u.ObjectFor(src)
	}
}

// TargetFile returns the artifact path under TargetPath.
func (u *Unit) TargetFile() string {
	var name string
	switch u.Type {
	case TypeShared:
		name = "lib" + u.Target + ".so"
	case TypeStatic:
		name = "lib" + u.Target + ".a"
	default:
		name = u.Target
	}
	return filepath.Join(u.TargetPath, name)
}

// DefineFlags returns the defines as -D compiler flags.
func (u *Unit) DefineFlags() []string {
	flags := make([]string, 0, len(u.Defines))
	for _, d := range u.Defines {
		flags = append(flags, "-D"+d)
	}
	return flags
}

// Describe returns a human-readable dump of the unit settings, one per line.
func (u *Unit) Describe() []string {
	list := func(v []string) string {
		if len(v) == 0 {
			return "-"
		}
		return strings.Join(v, " ")
	}
	return []string{
		"unit: " + u.Name,
		fmt.Sprintf("  mode: %s, type: %s, glob: %t", u.Mode, u.Type, u.GlobEnabled()),
		"  compiler: " + u.Compiler,
		"  target: " + u.TargetFile(),
		"  object dir: " + u.ObjectDir,
		"  dependencies: " + list(u.Dependencies),
		"  flags: " + list(u.Flags),
		"  defines: " + list(u.Defines),
		"  ldflags: " + list(u.LDFlags),
		"  libraries: " + list(u.Libraries),
		"  library paths: " + list(u.LibraryPaths),
		"  include paths: " + list(u.IncludePaths),
		"  includes: " + list(u.Includes),
		"  extensions: " + list(u.Extensions),
		"  source paths: " + list(u.SourcePaths),
		"  sources: " + list(u.Sources),
	}
}

func (u *Unit) clone() *Unit {
	c := *u
	c.Dependencies = slices.Clone(u.Dependencies)
	c.Flags = slices.Clone(u.Flags)
	c.LDFlags = slices.Clone(u.LDFlags)
	c.Libraries = slices.Clone(u.Libraries)
	c.LibraryPaths = slices.Clone(u.LibraryPaths)
	c.IncludePaths = slices.Clone(u.IncludePaths)
	c.Defines = slices.Clone(u.Defines)
	c.Includes = slices.Clone(u.Includes)
	c.Extensions = slices.Clone(u.Extensions)
	c.Sources = slices.Clone(u.Sources)
	c.SourcePaths = slices.Clone(u.SourcePaths)
	c.Objects = slices.Clone(u.Objects)
	c.Env = maps.Clone(u.Env)
	c.Modes = maps.Clone(u.Modes)
	if u.Glob != nil {
		glob := *u.Glob
		c.Glob = &glob
	}
	return &c
}

// NormalizeExtensions gives every extension a leading dot and drops empties.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
