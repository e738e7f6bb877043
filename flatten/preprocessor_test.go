package flatten

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/glslflat/vcs"
)

// memFS is an in-memory vcs.ContentReader that counts reads per path.
type memFS struct {
	files map[string]string
	reads map[string]int
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files, reads: make(map[string]int)}
}

func (m *memFS) read(filePath string) ([]byte, error) {
	m.reads[filePath]++
	content, ok := m.files[filePath]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

func guardFor(path string) string {
	return GuardName(path, DefaultGuardPrefix, DefaultMaxGuardLength)
}

func TestFlatten_ScenarioGuardedIncludeBeforeBody(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"\nHELLO\n",
		"b": "#pragma once\nWORLD\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)

	g := newGoldie(t)
	g.Assert(t, "scenario_a_includes_b", []byte(output))
}

func TestFlatten_DiamondTree(t *testing.T) {
	base, err := filepath.Abs(filepath.Join("testdata", "diamond"))
	require.NoError(t, err)

	reader := vcs.RootedContentReader(filepath.Join(base, "sysroot"), func(filePath string) ([]byte, error) {
		if filepath.IsAbs(filePath) {
			return os.ReadFile(filePath)
		}
		return os.ReadFile(filepath.Join(base, filepath.FromSlash(filePath)))
	})

	output, err := New(reader, Options{}).Flatten("main.frag")
	require.NoError(t, err)

	g := newGoldie(t)
	g.Assert(t, "diamond_tree", []byte(output))
}

func TestFlatten_NoIncludesOnlyStripsComments(t *testing.T) {
	source := "#version 450\n/* header\n comment */\nvoid main() { // entry\n}\n"
	files := newMemFS(map[string]string{"a.glsl": source})

	output, err := New(files.read, Options{}).Flatten("a.glsl")
	require.NoError(t, err)

	assert.Equal(t, StripComments(source), output)
	assert.Equal(t, "#version 450\n\nvoid main() { \n}\n", output)
}

func TestFlatten_OnceFileWrappedInExactlyOneGuard(t *testing.T) {
	source := "#pragma once\n// doc\nfloat x;\n"
	files := newMemFS(map[string]string{"a.glsl": source})

	output, err := New(files.read, Options{}).Flatten("a.glsl")
	require.NoError(t, err)

	guard := guardFor("a.glsl")
	assert.Equal(t, 1, strings.Count(output, "#ifndef "))
	assert.Equal(t, 1, strings.Count(output, "#define "))
	assert.Equal(t, 1, strings.Count(output, "#endif // "))

	stripped, _ := StripOnceDirective(source)
	assert.Equal(t, WrapGuard(guard, StripComments(stripped)), output)
}

func TestExpand_GuardNameStableWithinRun(t *testing.T) {
	source := "#pragma once\nfloat x;\n"
	p := New(newMemFS(nil).read, Options{})
	s := NewSession()

	first, err := p.Expand(s, "lib/x.glsl", source)
	require.NoError(t, err)
	second, err := p.Expand(s, "lib/x.glsl", source)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first.Text, "#ifndef "+guardFor("lib/x.glsl")+"\n"))
}

func TestFlatten_RepeatedOnceIncludeIsEmptyAfterFirst(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"\n---\n#include \"b\"\n",
		"b": "#pragma once\nB\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)

	guard := guardFor("b")
	assert.Equal(t, WrapGuard(guard, "\nB\n")+"\n---\n\n", output)
	assert.Equal(t, 2, files.reads["b"], "every occurrence is read again")
}

func TestFlatten_OnceDedupAppliesAcrossSubtrees(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"#include \"c\"",
		"b": "#include \"d\"",
		"c": "#include \"d\"",
		"d": "#pragma once\nD",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)

	assert.Equal(t, WrapGuard(guardFor("d"), "\nD"), output)
}

func TestFlatten_NonOnceIncludeIsRepeated(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"#include \"b\"",
		"b": "B;",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)
	assert.Equal(t, "B;B;", output)
}

func TestFlatten_OnceSelfIncludeTerminates(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#pragma once\n#include \"a\"\nBODY\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)

	assert.Equal(t, WrapGuard(guardFor("a"), "\n\nBODY\n"), output)
}

func TestFlatten_SelfIncludeWithoutOnceIsCyclic(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"a\"\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicInclusion))
	var cyclic *CyclicInclusionError
	require.True(t, errors.As(err, &cyclic))
	assert.Equal(t, "a", cyclic.Path)
	assert.Empty(t, output)
}

func TestFlatten_IndirectCycleNamesReenteredFile(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"\n",
		"b": "#include \"c\"\n",
		"c": "#include \"b\"\n",
	})

	_, err := New(files.read, Options{}).Flatten("a")

	var cyclic *CyclicInclusionError
	require.True(t, errors.As(err, &cyclic))
	assert.Equal(t, "b", cyclic.Path)
	assert.EqualError(t, err, "cyclic inclusion: b")
}

func TestFlatten_MissingInclude(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"missing.txt\"\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")

	require.Error(t, err)
	assert.Empty(t, output)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var notFound *FileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing.txt", notFound.Path)
}

func TestFlatten_MissingRoot(t *testing.T) {
	_, err := New(newMemFS(nil).read, Options{}).Flatten("a.glsl")

	var notFound *FileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "a.glsl", notFound.Path)
}

func TestFlatten_CommentedOutIncludesAreIgnored(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "// #include \"missing\"\n/* #include <missing> */\nX\n",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)
	assert.Equal(t, "\n\nX\n", output)
	assert.Zero(t, files.reads["missing"])
}

func TestFlatten_BracketedIncludeIsRooted(t *testing.T) {
	files := newMemFS(map[string]string{
		"a":          "#include <lib/b>\n",
		"/lib/b":     "B\n",
		"lib/b":      "wrong\n",
		"unused.txt": "",
	})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)
	assert.Equal(t, "B\n\n", output)
}

func TestFlatten_MalformedDirectivesPassThrough(t *testing.T) {
	source := "#include missing\n#include <unterminated\n#include \"\"\n"
	files := newMemFS(map[string]string{"a": source})

	output, err := New(files.read, Options{}).Flatten("a")
	require.NoError(t, err)
	assert.Equal(t, source, output)
}

func TestFlatten_QuotedIncludesResolveFlatByDefault(t *testing.T) {
	files := newMemFS(map[string]string{
		"shaders/a.glsl":     "#include \"shaders/lib/b.glsl\"",
		"shaders/lib/b.glsl": "#include \"c.glsl\"",
		"c.glsl":             "flat",
		"shaders/lib/c.glsl": "relative",
	})

	output, err := New(files.read, Options{}).Flatten("shaders/a.glsl")
	require.NoError(t, err)
	assert.Equal(t, "flat", output)
}

func TestFlatten_QuotedIncludesResolveRelativeWhenEnabled(t *testing.T) {
	files := newMemFS(map[string]string{
		"shaders/a.glsl":     "#include \"lib/b.glsl\"",
		"shaders/lib/b.glsl": "#include \"c.glsl\"",
		"c.glsl":             "flat",
		"shaders/lib/c.glsl": "relative",
	})

	output, err := New(files.read, Options{Resolution: ResolveRelative}).Flatten("shaders/a.glsl")
	require.NoError(t, err)
	assert.Equal(t, "relative", output)
}

func TestFlatten_RelativeModeCleansRootPath(t *testing.T) {
	source := "#pragma once\n#include \"a.glsl\"\nBODY\n"
	files := newMemFS(map[string]string{
		"./a.glsl": source,
		"a.glsl":   source,
	})

	output, err := New(files.read, Options{Resolution: ResolveRelative}).Flatten("./a.glsl")
	require.NoError(t, err)

	guard := GuardName("a.glsl", DefaultGuardPrefix, DefaultMaxGuardLength)
	assert.Equal(t, WrapGuard(guard, "\n\nBODY\n"), output)
	assert.Equal(t, 1, strings.Count(output, "BODY"))
	assert.Zero(t, files.reads["./a.glsl"])
}

func TestFlatten_DepthLimit(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("f%d", i)] = fmt.Sprintf("#include \"f%d\"", i+1)
	}
	files["f10"] = "leaf"

	_, err := New(newMemFS(files).read, Options{MaxDepth: 5}).Flatten("f0")

	var depthErr *DepthExceededError
	require.True(t, errors.As(err, &depthErr))
	assert.Equal(t, "f5", depthErr.Path)
	assert.Equal(t, 5, depthErr.Limit)
	assert.True(t, errors.Is(err, ErrDepthExceeded))

	output, err := New(newMemFS(files).read, Options{MaxDepth: -1}).Flatten("f0")
	require.NoError(t, err)
	assert.Equal(t, "leaf", output)
}

func TestFlatten_CustomGuardOptions(t *testing.T) {
	files := newMemFS(map[string]string{
		"shaders/very/long/path.glsl": "#pragma once\nX\n",
	})

	output, err := New(files.read, Options{GuardPrefix: "MY_", MaxGuardLength: 7}).Flatten("shaders/very/long/path.glsl")
	require.NoError(t, err)

	name := GuardName("shaders/very/long/path.glsl", "MY_", 7)
	assert.True(t, strings.HasPrefix(name, "MY_shaders_"), name)
	assert.Equal(t, WrapGuard(name, "\nX\n"), output)
}

func TestExpand_SessionIsRestoredAfterFailure(t *testing.T) {
	files := newMemFS(map[string]string{
		"b": "#include \"missing\"",
	})
	s := NewSession()

	_, err := New(files.read, Options{}).Expand(s, "a", "#include \"b\"")
	require.Error(t, err)

	assert.False(t, s.IsActive("a"))
	assert.False(t, s.IsActive("b"))
	assert.Zero(t, s.Depth())
	assert.True(t, s.WasIncluded("b"))
}

func TestFlattenSession_RecordsEdgesInOrder(t *testing.T) {
	files := newMemFS(map[string]string{
		"a": "#include \"b\"\n#include \"c\"\n",
		"b": "#pragma once\n#include \"c\"\n",
		"c": "#pragma once\nC\n",
	})

	_, s, err := New(files.read, Options{}).FlattenSession("a")
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "a", To: "c"},
	}, s.Edges())
	assert.True(t, s.WasIncluded("b"))
	assert.True(t, s.WasIncluded("c"))
	assert.False(t, s.WasIncluded("a"))
}

func TestNew_NilReaderUsesFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.glsl")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}\n"), 0o644))

	output, err := New(nil, Options{}).Flatten(filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", output)
}
