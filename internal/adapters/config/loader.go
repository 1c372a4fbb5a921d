// Package config loads the cbuild.yaml project file and the per-invocation run settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	fs     FileSystem
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, fs: NewOSFS()}
}

// WithFileSystem replaces the file system the loader reads from.
func (l *Loader) WithFileSystem(fsys FileSystem) *Loader {
	l.fs = fsys
	return l
}

// DiscoverRoot walks up from cwd and returns the directory containing the project file.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// Load finds the project file walking up from cwd and returns the project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Projectfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, "failed to load project"),
			"version", file.Version)
	}

	root := filepath.Dir(configPath)
	project := &domain.Project{
		Root:    root,
		Options: buildOptions(file.Options),
		Header: domain.HeaderSpec{
			Path:     resolvePath(root, file.Header.Path),
			Includes: file.Header.Includes,
		},
	}

	defaults, err := buildDefaults(root, file.Defaults)
	if err != nil {
		return nil, err
	}
	project.Defaults = defaults

	g := domain.NewGraph()
	for i := range file.Units {
		u, err := l.buildUnit(root, &file.Units[i], defaults)
		if err != nil {
			return nil, err
		}
		if err := g.Add(u); err != nil {
			return nil, err
		}
	}

	// Dependencies may point forward, so they are checked once every unit is known.
	for u := range g.Units() {
		for _, dep := range u.Dependencies {
			if _, ok := g.Get(dep); !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingDependency, "failed to load project"),
					"unit", u.Name), "missing_dependency", dep)
			}
		}
	}

	project.Graph = g
	return project, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	if abs, err := filepath.Abs(currentDir); err == nil {
		currentDir = abs
	}
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if info, err := l.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// readAndUnmarshalYAML reads a YAML file and decodes it strictly into target.
// Unknown keys are rejected so typos do not silently drop settings.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Projectfile) error {
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to load project"),
			"path", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "failed to load project"),
			"path", configPath)
	}
	return nil
}

func buildDefaults(root string, dto DefaultsDTO) (domain.Defaults, error) {
	mode, err := parseMode(dto.Mode)
	if err != nil {
		return domain.Defaults{}, zerr.With(err, "section", "defaults")
	}
	return domain.Defaults{
		Compiler:     dto.Compiler,
		Archiver:     dto.Archiver,
		ObjectDir:    resolvePath(root, dto.ObjectDir),
		Mode:         mode,
		Glob:         dto.Glob,
		Extensions:   domain.NormalizeExtensions(dto.Extensions),
		IncludePaths: resolvePaths(root, dto.IncludePaths),
		LibraryPaths: resolvePaths(root, dto.LibraryPaths),
		Flags:        dto.Flags,
		LDFlags:      dto.LDFlags,
		Libraries:    dto.Libraries,
		Defines:      dto.Defines,
		Includes:     dto.Includes,
	}, nil
}

func buildOptions(dtos []OptionDTO) []domain.Option {
	options := make([]domain.Option, 0, len(dtos))
	for _, dto := range dtos {
		kind := domain.OptionKind(strings.ToLower(dto.Kind))
		if kind == "" {
			kind = domain.OptionBool
		}
		options = append(options, domain.Option{
			Name:        dto.Name,
			Define:      dto.Define,
			Description: dto.Description,
			Kind:        kind,
			Default:     dto.Default,
			Flags:       dto.Flags,
			LDFlags:     dto.LDFlags,
			Libraries:   dto.Libraries,
			Compiler:    dto.Compiler,
			Conflicts:   dto.Conflicts,
		})
	}
	return options
}

func (l *Loader) buildUnit(root string, dto *UnitDTO, defaults domain.Defaults) (*domain.Unit, error) {
	mode, err := parseMode(dto.Mode)
	if err != nil {
		return nil, zerr.With(err, "unit", dto.Name)
	}

	buildType := domain.BuildType(strings.ToLower(dto.Type))
	if buildType == "" {
		buildType = domain.TypeExecutable
	}
	if !buildType.Valid() {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidBuildType, "failed to load project"),
			"unit", dto.Name), "type", dto.Type)
	}

	modes := make(map[domain.BuildMode]domain.ModeOverlay, len(dto.Modes))
	for key, overlay := range dto.Modes {
		m := domain.BuildMode(strings.ToLower(key))
		if !m.Valid() {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidBuildMode, "failed to load project"),
				"unit", dto.Name), "mode", key)
		}
		modes[m] = domain.ModeOverlay{
			Target:  overlay.Target,
			Flags:   overlay.Flags,
			LDFlags: overlay.LDFlags,
			Defines: overlay.Defines,
		}
	}

	globEnabled := defaults.Glob
	if dto.Glob != nil {
		globEnabled = *dto.Glob
	}
	if globEnabled && len(dto.SourcePaths) == 0 && len(dto.Sources) == 0 && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("unit %s enables glob but declares no source_paths", dto.Name))
	}

	return &domain.Unit{
		Name:         dto.Name,
		Mode:         mode,
		Type:         buildType,
		Compiler:     dto.Compiler,
		Archiver:     dto.Archiver,
		Target:       dto.Target,
		TargetPath:   resolvePath(root, dto.TargetPath),
		ObjectDir:    resolvePath(root, dto.ObjectDir),
		Dependencies: dto.DependsOn,
		Flags:        dto.Flags,
		LDFlags:      dto.LDFlags,
		Libraries:    dto.Libraries,
		LibraryPaths: resolvePaths(root, dto.LibraryPaths),
		IncludePaths: resolvePaths(root, dto.IncludePaths),
		Defines:      dto.Defines,
		Includes:     dto.Includes,
		Extensions:   domain.NormalizeExtensions(dto.Extensions),
		Sources:      resolvePaths(root, dto.Sources),
		SourcePaths:  resolvePaths(root, dto.SourcePaths),
		Glob:         dto.Glob,
		Env:          dto.Env,
		Modes:        modes,
	}, nil
}

// parseMode accepts an empty mode, which inherits from the defaults or the run settings.
func parseMode(raw string) (domain.BuildMode, error) {
	if raw == "" {
		return "", nil
	}
	m := domain.BuildMode(strings.ToLower(raw))
	if !m.Valid() {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidBuildMode, "failed to load project"), "mode", raw)
	}
	return m, nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func resolvePaths(root string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, resolvePath(root, p))
	}
	return out
}
