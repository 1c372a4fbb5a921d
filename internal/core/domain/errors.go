package domain

import "go.trai.ch/zerr"

// Error kinds. Every sentinel below wraps exactly one of them so callers can
// classify a failure with errors.Is.
var (
	// ErrConfiguration is the kind for invalid units, graphs, options and project files.
	ErrConfiguration = zerr.New("configuration error")

	// ErrIO is the kind for unreadable or unwritable files.
	ErrIO = zerr.New("io error")

	// ErrToolInvocation is the kind for a compiler, linker or archiver exiting non-zero.
	ErrToolInvocation = zerr.New("tool invocation failed")
)

var (
	// ErrInvalidBuildMode is returned when a unit mode is neither debug nor release.
	ErrInvalidBuildMode = zerr.Wrap(ErrConfiguration, "invalid build mode, expected 'debug' or 'release'")

	// ErrInvalidBuildType is returned when a unit type is not executable, shared or static.
	ErrInvalidBuildType = zerr.Wrap(ErrConfiguration, "invalid build type, expected 'executable', 'shared' or 'static'")

	// ErrMissingCompiler is returned when no compiler is set on the unit or in the defaults.
	ErrMissingCompiler = zerr.Wrap(ErrConfiguration, "compiler must not be empty")

	// ErrMissingObjectDir is returned when no object destination is set on the unit or in the defaults.
	ErrMissingObjectDir = zerr.Wrap(ErrConfiguration, "object destination must not be empty")

	// ErrMissingTarget is returned when a unit has no target file name.
	ErrMissingTarget = zerr.Wrap(ErrConfiguration, "target must not be empty")

	// ErrNoSources is returned when a unit resolves to an empty source list.
	ErrNoSources = zerr.Wrap(ErrConfiguration, "no source files found")

	// ErrSourceObjectMismatch is returned when sources and objects cannot be paired.
	ErrSourceObjectMismatch = zerr.Wrap(ErrConfiguration, "source and object lists differ in length")

	// ErrObjectCollision is returned when two sources of a unit derive the same object path.
	ErrObjectCollision = zerr.Wrap(ErrConfiguration, "two sources compile to the same object file")

	// ErrInvalidUnitName is returned when a unit name contains characters unsafe for a file name.
	ErrInvalidUnitName = zerr.Wrap(ErrConfiguration, "unit name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrUnitAlreadyExists is returned when adding a unit whose name is already taken.
	ErrUnitAlreadyExists = zerr.Wrap(ErrConfiguration, "unit already exists")

	// ErrUnitNotFound is returned when a requested unit is not in the graph.
	ErrUnitNotFound = zerr.Wrap(ErrConfiguration, "unit not found")

	// ErrMissingDependency is returned when a unit depends on a name that is not in the graph.
	ErrMissingDependency = zerr.Wrap(ErrConfiguration, "missing dependency")

	// ErrCycleDetected is returned when the unit dependency graph contains a cycle.
	ErrCycleDetected = zerr.Wrap(ErrConfiguration, "cycle detected")

	// ErrUnknownOption is returned when an option toggled on the command line is not declared.
	ErrUnknownOption = zerr.Wrap(ErrConfiguration, "unknown build option")

	// ErrOptionConflict is returned when two mutually exclusive options are enabled.
	ErrOptionConflict = zerr.Wrap(ErrConfiguration, "conflicting build options")

	// ErrInvalidOptionValue is returned when a boolean option receives a value or a string option none.
	ErrInvalidOptionValue = zerr.Wrap(ErrConfiguration, "invalid build option value")

	// ErrInvalidVerbosity is returned when a verbosity level cannot be parsed.
	ErrInvalidVerbosity = zerr.Wrap(ErrConfiguration, "invalid verbosity, expected 0-5 or silence, minimal, little, average, detailed, debug")

	// ErrConfigNotFound is returned when no project file is found walking up from the working directory.
	ErrConfigNotFound = zerr.Wrap(ErrConfiguration, "could not find "+ProjectFileName)

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.Wrap(ErrConfiguration, "failed to parse project file")

	// ErrUnsupportedConfigVersion is returned when the project file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.Wrap(ErrConfiguration, "unsupported project file version")
)

var (
	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.Wrap(ErrIO, "failed to read project file")

	// ErrChecksumFailed is returned when a file cannot be read for checksumming.
	ErrChecksumFailed = zerr.Wrap(ErrIO, "failed to checksum file")

	// ErrGlobFailed is returned when a source search path cannot be scanned.
	ErrGlobFailed = zerr.Wrap(ErrIO, "failed to scan source path")

	// ErrCacheReadFailed is returned when a cache file exists but cannot be read.
	ErrCacheReadFailed = zerr.Wrap(ErrIO, "failed to read cache file")

	// ErrCacheWriteFailed is returned when a cache file cannot be written.
	ErrCacheWriteFailed = zerr.Wrap(ErrIO, "failed to write cache file")

	// ErrCacheRemoveFailed is returned when a cache file cannot be removed.
	ErrCacheRemoveFailed = zerr.Wrap(ErrIO, "failed to remove cache file")

	// ErrObjectDirCreateFailed is returned when the object destination cannot be created.
	ErrObjectDirCreateFailed = zerr.Wrap(ErrIO, "failed to create object directory")

	// ErrTargetDirCreateFailed is returned when the target directory cannot be created.
	ErrTargetDirCreateFailed = zerr.Wrap(ErrIO, "failed to create target directory")

	// ErrHeaderWriteFailed is returned when the generated configuration header cannot be written.
	ErrHeaderWriteFailed = zerr.Wrap(ErrIO, "failed to write configuration header")

	// ErrCleanFailed is returned when a build artifact cannot be removed.
	ErrCleanFailed = zerr.Wrap(ErrIO, "failed to remove build artifact")
)

var (
	// ErrCompileFailed is returned when compiling a source exits non-zero.
	ErrCompileFailed = zerr.Wrap(ErrToolInvocation, "failed to compile source")

	// ErrLinkFailed is returned when linking a target exits non-zero.
	ErrLinkFailed = zerr.Wrap(ErrToolInvocation, "failed to link target")

	// ErrArchiveFailed is returned when archiving a static library exits non-zero.
	ErrArchiveFailed = zerr.Wrap(ErrToolInvocation, "failed to archive target")

	// ErrEmptyCommand is returned when a tool invocation has no program to run.
	ErrEmptyCommand = zerr.Wrap(ErrToolInvocation, "empty command")
)

// ErrCacheCorrupt is returned when a cache file is truncated, fails its
// integrity check or was written by an incompatible format version.
// The builder treats it as a missing cache.
var ErrCacheCorrupt = zerr.New("cache file is corrupt or incompatible")
