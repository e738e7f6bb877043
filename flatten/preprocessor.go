// Package flatten expands #include trees into a single translation unit.
package flatten

import (
	"strings"

	"github.com/LegacyCodeHQ/glslflat/internal/mcplogdlog"
	"github.com/LegacyCodeHQ/glslflat/vcs"
)

// DefaultMaxDepth bounds the include chain so that runaway trees fail with an
// error instead of exhausting the goroutine stack.
const DefaultMaxDepth = 256

// Options configures a Preprocessor. Zero values select the defaults.
type Options struct {
	// GuardPrefix starts every synthesized guard macro.
	GuardPrefix string
	// MaxGuardLength bounds the path-derived part of guard names.
	MaxGuardLength int
	// Resolution selects how quoted include operands are resolved.
	Resolution IncludeResolution
	// MaxDepth bounds the include chain. Negative disables the limit.
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.GuardPrefix == "" {
		o.GuardPrefix = DefaultGuardPrefix
	}
	if o.MaxGuardLength <= 0 {
		o.MaxGuardLength = DefaultMaxGuardLength
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Result is the expansion of one file.
type Result struct {
	// Text is the expanded, comment-free, guard-wrapped content.
	Text string
	// DeclaresOnce reports whether the raw file text carried "#pragma once".
	DeclaresOnce bool
}

// Preprocessor flattens include trees read through a vcs.ContentReader.
type Preprocessor struct {
	contentReader vcs.ContentReader
	opts          Options
}

// New returns a Preprocessor reading files through contentReader. A nil reader
// reads from the local filesystem.
func New(contentReader vcs.ContentReader, opts Options) *Preprocessor {
	if contentReader == nil {
		contentReader = vcs.FilesystemContentReader()
	}
	return &Preprocessor{
		contentReader: contentReader,
		opts:          opts.withDefaults(),
	}
}

// Flatten loads path and returns its fully flattened text.
func (p *Preprocessor) Flatten(path string) (string, error) {
	text, _, err := p.FlattenSession(path)
	return text, err
}

// FlattenSession is Flatten that also returns the finished session, whose
// edges describe the include tree that was walked.
func (p *Preprocessor) FlattenSession(path string) (string, *Session, error) {
	path = p.opts.Resolution.RootPath(path)

	source, err := p.load(path)
	if err != nil {
		return "", nil, err
	}

	session := NewSession()
	result, err := p.Expand(session, path, source)
	if err != nil {
		return "", session, err
	}
	return result.Text, session, nil
}

// Expand recursively expands text, the raw content of path.
func (p *Preprocessor) Expand(s *Session, path, text string) (Result, error) {
	text, hadOnce := StripOnceDirective(text)

	if s.IsActive(path) {
		if hadOnce {
			mcplogdlog.Debug("once-guarded cycle short-circuited", map[string]any{"path": path})
			return Result{DeclaresOnce: true}, nil
		}
		return Result{}, &CyclicInclusionError{Path: path}
	}
	if p.opts.MaxDepth > 0 && s.Depth() >= p.opts.MaxDepth {
		return Result{}, &DepthExceededError{Path: path, Limit: p.opts.MaxDepth}
	}

	s.push(path)
	defer s.pop(path)

	text = StripComments(text)

	// Scanning resumes after each splice, so expanded text is never rescanned.
	var out strings.Builder
	out.Grow(len(text))
	pos := 0
	for {
		loc := IncludePattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		operand := text[pos+loc[2] : pos+loc[3]]

		replacement, err := p.include(s, path, operand)
		if err != nil {
			return Result{}, err
		}

		out.WriteString(text[pos:start])
		out.WriteString(replacement)
		pos = end
	}
	out.WriteString(text[pos:])

	expanded := out.String()
	if hadOnce {
		expanded = WrapGuard(GuardName(path, p.opts.GuardPrefix, p.opts.MaxGuardLength), expanded)
	}

	return Result{Text: expanded, DeclaresOnce: hadOnce}, nil
}

// include expands one directive found in includer and returns its splice text.
func (p *Preprocessor) include(s *Session, includer, operand string) (string, error) {
	target := p.opts.Resolution.ResolveFrom(includer, operand)

	source, err := p.load(target)
	if err != nil {
		return "", err
	}

	seenBefore := s.markIncluded(target)
	s.recordEdge(includer, target)

	included, err := p.Expand(s, target, source)
	if err != nil {
		return "", err
	}

	if included.DeclaresOnce && seenBefore {
		mcplogdlog.Debug("skipped repeated once-only include", map[string]any{
			"includer": includer,
			"path":     target,
		})
		return "", nil
	}

	mcplogdlog.Debug("include expanded", map[string]any{
		"includer": includer,
		"operand":  operand,
		"path":     target,
		"bytes":    len(included.Text),
	})
	return included.Text, nil
}

func (p *Preprocessor) load(path string) (string, error) {
	content, err := p.contentReader(path)
	if err != nil {
		return "", &FileNotFoundError{Path: path, Err: err}
	}
	return string(content), nil
}
