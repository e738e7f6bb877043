package flatten

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicInclusion is matched by *CyclicInclusionError.
	ErrCyclicInclusion = errors.New("cyclic inclusion")
	// ErrFileNotFound is matched by *FileNotFoundError.
	ErrFileNotFound = errors.New("cannot load file")
	// ErrDepthExceeded is matched by *DepthExceededError.
	ErrDepthExceeded = errors.New("include depth exceeded")
)

// CyclicInclusionError reports a file without "#pragma once" that was reached
// again while it was still being expanded.
type CyclicInclusionError struct {
	Path string
}

func (e *CyclicInclusionError) Error() string {
	return fmt.Sprintf("cyclic inclusion: %s", e.Path)
}

func (e *CyclicInclusionError) Is(target error) bool {
	return target == ErrCyclicInclusion
}

// FileNotFoundError reports an include target that could not be read.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot load file: %s", e.Path)
	}
	return fmt.Sprintf("cannot load file: %s: %v", e.Path, e.Err)
}

func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// DepthExceededError reports an include chain deeper than the configured limit.
type DepthExceededError struct {
	Path  string
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("maximum include depth (%d) exceeded: processing %s", e.Limit, e.Path)
}

func (e *DepthExceededError) Is(target error) bool {
	return target == ErrDepthExceeded
}
