package flatten

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
)

// IncludePattern matches an include directive anywhere in the text. The first
// submatch is the operand including its delimiters.
var IncludePattern = regexp.MustCompile(`#include\s*("[^"]+"|<[^>]*>)`)

// IncludeResolution selects how quoted include operands are turned into paths.
type IncludeResolution int

const (
	// ResolveFlat resolves quoted includes against the working directory,
	// whatever file they appear in.
	ResolveFlat IncludeResolution = iota
	// ResolveRelative resolves quoted includes against the directory of the
	// including file.
	ResolveRelative
)

func (r IncludeResolution) String() string {
	switch r {
	case ResolveFlat:
		return "flat"
	case ResolveRelative:
		return "relative"
	default:
		return fmt.Sprintf("IncludeResolution(%d)", int(r))
	}
}

// ResolveIncludePath maps a raw operand, delimiters included, to its canonical
// lookup path. "name" maps to name and <name> maps to /name.
//
// The operand must come from IncludePattern; anything else panics.
func ResolveIncludePath(operand string) string {
	if len(operand) < 2 {
		panic(fmt.Sprintf("flatten: malformed include operand %q", operand))
	}

	open, closing := operand[0], operand[len(operand)-1]
	inner := operand[1 : len(operand)-1]
	switch {
	case open == '"' && closing == '"':
		return inner
	case open == '<' && closing == '>':
		return "/" + inner
	default:
		panic(fmt.Sprintf("flatten: malformed include operand %q", operand))
	}
}

// ResolveFrom returns the path read for operand when it appears in includer.
// It applies the resolution mode on top of ResolveIncludePath.
func (r IncludeResolution) ResolveFrom(includer, operand string) string {
	resolved := ResolveIncludePath(operand)
	if r != ResolveRelative || operand[0] != '"' || path.IsAbs(resolved) {
		return resolved
	}
	return path.Join(path.Dir(includer), resolved)
}

// RootPath returns the canonical form of a root file path. Relative mode
// cleans it the same way ResolveFrom cleans included paths, so a root given as
// ./a.glsl is the same file as a later "a.glsl" include.
func (r IncludeResolution) RootPath(root string) string {
	if r != ResolveRelative {
		return root
	}
	return path.Clean(filepath.ToSlash(root))
}
