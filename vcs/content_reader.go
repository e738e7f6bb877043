package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/glslflat/vcs/git"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, git, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader reads files from the local filesystem.
func FilesystemContentReader() ContentReader {
	return func(filePath string) ([]byte, error) {
		return os.ReadFile(filepath.FromSlash(filePath))
	}
}

// RootedContentReader serves absolute paths from under sysroot and passes
// relative paths to next unchanged. The path handed to the reader is not
// rewritten for anyone else, so "<lib/a.glsl>" still canonicalizes to
// "/lib/a.glsl" while being read from sysroot/lib/a.glsl.
func RootedContentReader(sysroot string, next ContentReader) ContentReader {
	if sysroot == "" {
		return next
	}
	root := filepath.Clean(sysroot)
	return func(filePath string) ([]byte, error) {
		if !strings.HasPrefix(filePath, "/") {
			return next(filePath)
		}
		mapped := filepath.Join(root, filepath.FromSlash(filePath))
		within, err := isWithinBase(root, mapped)
		if err != nil {
			return nil, err
		}
		if !within {
			return nil, fmt.Errorf("path escapes sysroot %s: %q", root, filePath)
		}
		return next(mapped)
	}
}

// GitCommitContentReader reads files as they were at commit. Relative paths
// are taken relative to repoPath; absolute paths must lie inside the
// repository.
func GitCommitContentReader(repoPath, commitID string) (ContentReader, error) {
	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repo path: %w", err)
	}

	repoRoot, err := git.GetRepositoryRoot(absRepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository root: %w", err)
	}
	repoRoot = resolveSymlinks(repoRoot)

	if err := git.ValidateCommit(repoRoot, commitID); err != nil {
		return nil, err
	}

	base := resolveSymlinks(absRepoPath)
	return func(filePath string) ([]byte, error) {
		absPath := filepath.FromSlash(filePath)
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(base, absPath)
		}

		relPath, err := filepath.Rel(repoRoot, filepath.Clean(absPath))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate path %q: %w", filePath, err)
		}
		return git.GetFileContentFromCommit(repoRoot, commitID, filepath.ToSlash(relPath))
	}, nil
}

func isWithinBase(baseDir, targetPath string) (bool, error) {
	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(targetPath))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate path %q: %w", targetPath, err)
	}
	if rel == "." {
		return true, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return !filepath.IsAbs(rel), nil
}

func resolveSymlinks(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
