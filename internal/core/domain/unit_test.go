package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/internal/core/domain"
)

func validUnit() *domain.Unit {
	return &domain.Unit{
		Name:      "core",
		Mode:      domain.ModeDebug,
		Type:      domain.TypeStatic,
		Compiler:  "g++",
		ObjectDir: "obj",
		Target:    "core",
	}
}

func TestUnit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *domain.Unit)
		wantErr error
	}{
		{name: "valid", mutate: func(*domain.Unit) {}},
		{name: "bad mode", mutate: func(u *domain.Unit) { u.Mode = "fast" }, wantErr: domain.ErrInvalidBuildMode},
		{name: "empty mode", mutate: func(u *domain.Unit) { u.Mode = "" }, wantErr: domain.ErrInvalidBuildMode},
		{name: "bad type", mutate: func(u *domain.Unit) { u.Type = "dll" }, wantErr: domain.ErrInvalidBuildType},
		{name: "no compiler", mutate: func(u *domain.Unit) { u.Compiler = "" }, wantErr: domain.ErrMissingCompiler},
		{name: "no object dir", mutate: func(u *domain.Unit) { u.ObjectDir = "" }, wantErr: domain.ErrMissingObjectDir},
		{name: "no target", mutate: func(u *domain.Unit) { u.Target = "" }, wantErr: domain.ErrMissingTarget},
		{name: "bad name", mutate: func(u *domain.Unit) { u.Name = "a/b" }, wantErr: domain.ErrInvalidUnitName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUnit()
			tt.mutate(u)

			err := u.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}

func TestUnit_EffectiveMergesDefaults(t *testing.T) {
	u := &domain.Unit{
		Name:         "app",
		Type:         domain.TypeExecutable,
		Target:       "app",
		IncludePaths: []string{"include"},
		Flags:        []string{"-Wall"},
		Modes: map[domain.BuildMode]domain.ModeOverlay{
			domain.ModeDebug:   {Target: "app_d", Flags: []string{"-g"}, Defines: []string{"TRACE"}},
			domain.ModeRelease: {Flags: []string{"-O2"}},
		},
	}
	d := domain.Defaults{
		Compiler:     "clang++",
		ObjectDir:    "obj",
		Mode:         domain.ModeDebug,
		Glob:         true,
		Extensions:   []string{"cc", ".cpp"},
		IncludePaths: []string{"../lib"},
		LibraryPaths: []string{"../lib"},
		Includes:     []string{"build_config.h"},
	}

	e := u.Effective(d)

	assert.Equal(t, "clang++", e.Compiler)
	assert.Equal(t, domain.DefaultArchiver, e.Archiver)
	assert.Equal(t, "obj", e.ObjectDir)
	assert.Equal(t, domain.ModeDebug, e.Mode)
	assert.True(t, e.GlobEnabled())
	assert.Equal(t, []string{".cc", ".cpp"}, e.Extensions)
	assert.Equal(t, []string{"include", "../lib"}, e.IncludePaths)
	assert.Equal(t, []string{"../lib"}, e.LibraryPaths)
	assert.Equal(t, []string{"build_config.h"}, e.Includes)
	assert.Equal(t, "app_d", e.Target)
	assert.Equal(t, []string{"-Wall", "-g"}, e.Flags)
	assert.Equal(t, []string{"-DTRACE"}, e.DefineFlags())

	// The configured unit stays untouched so preparation can be repeated.
	assert.Equal(t, []string{"include"}, u.IncludePaths)
	assert.Empty(t, u.Compiler)
	assert.Nil(t, u.Glob)
	assert.Equal(t, "app", u.Target)
}

func TestUnit_EffectiveKeepsExplicitFields(t *testing.T) {
	noGlob := false
	u := &domain.Unit{
		Name:       "app",
		Compiler:   "gcc",
		ObjectDir:  "build",
		Mode:       domain.ModeRelease,
		Glob:       &noGlob,
		Extensions: []string{".c"},
	}
	e := u.Effective(domain.Defaults{
		Compiler:   "g++",
		ObjectDir:  "obj",
		Mode:       domain.ModeDebug,
		Glob:       true,
		Extensions: []string{".cc"},
	})

	assert.Equal(t, "gcc", e.Compiler)
	assert.Equal(t, "build", e.ObjectDir)
	assert.Equal(t, domain.ModeRelease, e.Mode)
	assert.False(t, e.GlobEnabled())
	assert.Equal(t, []string{".c"}, e.Extensions)
}

func TestUnit_DeriveObjectsPairsPositionally(t *testing.T) {
	u := validUnit()
	u.Sources = []string{"src/a.cc", "lib/b.cpp", "c.c"}

	u.DeriveObjects()

	require.Len(t, u.Objects, len(u.Sources))
	assert.Equal(t, filepath.Join("obj", "a.o"), u.Objects[0])
	assert.Equal(t, filepath.Join("obj", "b.o"), u.Objects[1])
	assert.Equal(t, filepath.Join("obj", "c.o"), u.Objects[2])
}

func TestUnit_TargetFile(t *testing.T) {
	tests := []struct {
		typ  domain.BuildType
		want string
	}{
		{domain.TypeExecutable, filepath.Join("bin", "core")},
		{domain.TypeShared, filepath.Join("bin", "libcore.so")},
		{domain.TypeStatic, filepath.Join("bin", "libcore.a")},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			u := validUnit()
			u.Type = tt.typ
			u.TargetPath = "bin"
			assert.Equal(t, tt.want, u.TargetFile())
		})
	}
}

func TestUnit_Describe(t *testing.T) {
	u := validUnit()
	lines := u.Describe()
	require.NotEmpty(t, lines)
	assert.Equal(t, "unit: core", lines[0])
	assert.Contains(t, lines, "  compiler: g++")
	assert.Contains(t, lines, "  dependencies: -")
}

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t, []string{".cc", ".c", ".cpp"}, domain.NormalizeExtensions([]string{"cc", ".c", " cpp ", ""}))
}
