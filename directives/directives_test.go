package directives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/glslflat/flatten"
)

func TestParseIncludes(t *testing.T) {
	source := `#version 450
#include <std/math.glsl>
#include "shaders/lighting.glsl"

void main() {}
`
	includes, err := ParseIncludes([]byte(source))

	require.NoError(t, err)
	require.Len(t, includes, 2)

	assert.Equal(t, IncludeSystem, includes[0].Kind)
	assert.Equal(t, "<std/math.glsl>", includes[0].Operand)
	assert.Equal(t, "std/math.glsl", includes[0].Path())
	assert.Equal(t, "/std/math.glsl", includes[0].CanonicalPath())
	assert.Equal(t, 2, includes[0].Line)

	assert.Equal(t, IncludeLocal, includes[1].Kind)
	assert.Equal(t, "shaders/lighting.glsl", includes[1].Path())
	assert.Equal(t, "shaders/lighting.glsl", includes[1].CanonicalPath())
	assert.Equal(t, 3, includes[1].Line)
}

func TestInclude_ResolvedPath(t *testing.T) {
	local := Include{Operand: `"lib/b.glsl"`, Kind: IncludeLocal}
	system := Include{Operand: `<std/math.glsl>`, Kind: IncludeSystem}

	assert.Equal(t, "lib/b.glsl", local.ResolvedPath("./shaders/a.glsl", flatten.ResolveFlat))
	assert.Equal(t, "shaders/lib/b.glsl", local.ResolvedPath("./shaders/a.glsl", flatten.ResolveRelative))
	assert.Equal(t, "/std/math.glsl", system.ResolvedPath("shaders/a.glsl", flatten.ResolveRelative))
}

func TestParseIncludes_SkipsCommentedDirectives(t *testing.T) {
	source := `// #include "a.glsl"
/* #include "b.glsl" */
#include "c.glsl"
`
	includes, err := ParseIncludes([]byte(source))

	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "c.glsl", includes[0].Path())
}

func TestParseIncludes_NoIncludes(t *testing.T) {
	includes, err := ParseIncludes([]byte("void main() {}\n"))

	require.NoError(t, err)
	assert.Empty(t, includes)
}

func TestIncludeKind_String(t *testing.T) {
	assert.Equal(t, "local", IncludeLocal.String())
	assert.Equal(t, "system", IncludeSystem.String())
}
