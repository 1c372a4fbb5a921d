package builder

import (
	"go.trai.ch/cbuild/internal/core/domain"
)

// CompileCommand returns the invocation compiling src into obj. The source is
// always the last argument.
func CompileCommand(u *domain.Unit, src, obj string) domain.Command {
	args := make([]string, 0, 6+len(u.Flags)+len(u.Defines)+2*len(u.Includes)+len(u.IncludePaths))
	args = append(args, u.Compiler, "-c", "-o", obj)
	args = append(args, u.Flags...)
	args = append(args, u.DefineFlags()...)
	args = append(args, domain.MarkerDefine)
	for _, inc := range u.Includes {
		args = append(args, "-include", inc)
	}
	for _, dir := range u.IncludePaths {
		args = append(args, "-I"+dir)
	}
	if u.Type == domain.TypeShared {
		args = append(args, "-fPIC")
	}
	args = append(args, src)

	return domain.Command{Args: args, Env: u.Env}
}

// LinkCommand returns the invocation producing the unit's target from its
// objects. Objects precede linker flags and libraries so symbols resolve with
// single-pass linkers. Static libraries are archived from the objects alone.
func LinkCommand(u *domain.Unit) domain.Command {
	target := u.TargetFile()

	if u.Type == domain.TypeStatic {
		args := make([]string, 0, 3+len(u.Objects))
		args = append(args, u.Archiver, "rcs", target)
		args = append(args, u.Objects...)
		return domain.Command{Args: args, Env: u.Env}
	}

	args := make([]string, 0, 4+len(u.Objects)+len(u.LDFlags)+len(u.LibraryPaths)+len(u.Libraries))
	args = append(args, u.Compiler)
	if u.Type == domain.TypeShared {
		args = append(args, "-shared")
	}
	args = append(args, "-o", target)
	args = append(args, u.Objects...)
	args = append(args, u.LDFlags...)
	for _, dir := range u.LibraryPaths {
		args = append(args, "-L"+dir)
	}
	for _, lib := range u.Libraries {
		args = append(args, "-l"+lib)
	}

	return domain.Command{Args: args, Env: u.Env}
}
