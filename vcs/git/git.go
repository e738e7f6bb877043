package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const gitCommandTimeout = 10 * time.Second

// GetRepositoryRoot returns the absolute path to the repository root
func GetRepositoryRoot(repoPath string) (string, error) {
	stdout, stderr, err := runGitCommand(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", gitCommandError(err, stderr)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// GetFileContentFromCommit reads the content of a file at a specific commit
// using 'git show commit:path'. The filePath should be relative to the repository root.
func GetFileContentFromCommit(repoPath, commitID, filePath string) ([]byte, error) {
	if err := validateGitRef(commitID); err != nil {
		return nil, err
	}
	if err := validateGitRelPath(filePath); err != nil {
		return nil, err
	}

	// Format: commit:path
	ref := fmt.Sprintf("%s:%s", commitID, filepath.ToSlash(filePath))

	stdout, stderr, err := runGitCommand(repoPath, "show", ref)
	if err != nil {
		if stderr != "" {
			return nil, fmt.Errorf("git show failed: %s", stderr)
		}
		return nil, err
	}
	return stdout, nil
}

func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t ") {
		return fmt.Errorf("git reference contains whitespace or NUL: %q", ref)
	}
	return nil
}

func validateGitRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("git path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("git path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("git path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("git path escapes repository: %q", path)
	}
	return nil
}

// ValidateCommit validates that a commit reference resolves in the given repository.
func ValidateCommit(repoPath, commitID string) error {
	return validateCommit(repoPath, commitID)
}

// validateCommit checks if the given commit reference exists in the repository
func validateCommit(repoPath, commitID string) error {
	if err := validateGitRef(commitID); err != nil {
		return err
	}

	_, stderr, err := runGitCommand(repoPath, "rev-parse", "--verify", commitID+"^{commit}")
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("invalid commit reference '%s': %s", commitID, stderr)
		}
		return fmt.Errorf("invalid commit reference '%s'", commitID)
	}
	return nil
}

// runGitCommand runs git in repoPath and returns stdout and trimmed stderr.
func runGitCommand(repoPath string, args ...string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrText := strings.TrimSpace(stderr.String())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, stderrText, fmt.Errorf("git command timed out after %s", gitCommandTimeout)
		}
		return nil, stderrText, err
	}

	return stdout.Bytes(), strings.TrimSpace(stderr.String()), nil
}

func gitCommandError(err error, stderr string) error {
	if stderr != "" {
		return fmt.Errorf("git command failed: %s", stderr)
	}
	return err
}
