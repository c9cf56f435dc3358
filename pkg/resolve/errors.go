package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCyclicReference marks a reference graph containing a cycle. This is
	// fatal for the load session, never silently dropped.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrResolution wraps load failures when they surface through the query
	// API: a session with a fatal load error serves no resolutions until the
	// documents are corrected.
	ErrResolution = errors.New("resolution failed")
)

// CyclicReferenceError names the documents forming a reference cycle.
type CyclicReferenceError struct {
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicReference, strings.Join(e.Path, " -> "))
}

func (e *CyclicReferenceError) Is(target error) bool {
	return target == ErrCyclicReference
}

// ResolutionError wraps an underlying load error surfaced at query time.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrResolution, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
