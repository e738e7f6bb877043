// Package directives lists #include directives using tree-sitter's C grammar.
// It is a diagnostic view: flattening itself scans text with a regular
// expression and never consults the parse tree.
package directives

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/LegacyCodeHQ/glslflat/flatten"
)

// IncludeKind distinguishes between system and local includes.
type IncludeKind int

const (
	IncludeLocal IncludeKind = iota
	IncludeSystem
)

func (k IncludeKind) String() string {
	if k == IncludeSystem {
		return "system"
	}
	return "local"
}

// Include represents one include directive.
type Include struct {
	// Operand is the directive argument with its delimiters, e.g. "a.glsl" or <a.glsl>.
	Operand string
	Kind    IncludeKind
	// Line is 1-based.
	Line int
}

// Path returns the operand without its delimiters.
func (i Include) Path() string {
	return i.Operand[1 : len(i.Operand)-1]
}

// CanonicalPath returns the directive's path under flat resolution.
func (i Include) CanonicalPath() string {
	return flatten.ResolveIncludePath(i.Operand)
}

// ResolvedPath returns the path the flattener would read for this directive
// when it appears in includer under resolution r.
func (i Include) ResolvedPath(includer string, r flatten.IncludeResolution) string {
	return r.ResolveFrom(r.RootPath(includer), i.Operand)
}

// ParseIncludes parses source code and extracts includes in source order.
func ParseIncludes(sourceCode []byte) ([]Include, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	return extractIncludes(tree.RootNode(), sourceCode), nil
}

func extractIncludes(rootNode *sitter.Node, sourceCode []byte) []Include {
	var includes []Include

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		if n.Type() == "preproc_include" {
			if inc, ok := extractIncludeFromNode(n, sourceCode); ok {
				includes = append(includes, inc)
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return includes
}

func extractIncludeFromNode(node *sitter.Node, sourceCode []byte) (Include, bool) {
	line := int(node.StartPoint().Row) + 1

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		operand := strings.TrimSpace(child.Content(sourceCode))
		switch child.Type() {
		case "string_literal":
			if len(operand) > 2 && strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) {
				return Include{Operand: operand, Kind: IncludeLocal, Line: line}, true
			}
		case "system_lib_string":
			if len(operand) >= 2 && strings.HasPrefix(operand, "<") && strings.HasSuffix(operand, ">") {
				return Include{Operand: operand, Kind: IncludeSystem, Line: line}, true
			}
		}
	}

	return Include{}, false
}
