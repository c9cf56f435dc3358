package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument marks documents whose metadata could not be parsed
	// into the required fields. Malformed documents are excluded from the
	// session and reported as warnings, the load itself continues.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrDuplicateDocument marks two documents carrying the same ID in one
	// load. This is fatal for the session.
	ErrDuplicateDocument = errors.New("duplicate document")
)

// MalformedDocumentError wraps the parse failure of a single document.
type MalformedDocumentError struct {
	Err error
	ID  string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrMalformedDocument, e.ID, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// DuplicateDocumentError reports two sources producing the same document ID.
type DuplicateDocumentError struct {
	ID string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("%v: %q", ErrDuplicateDocument, e.ID)
}

func (e *DuplicateDocumentError) Is(target error) bool {
	return target == ErrDuplicateDocument
}

// Warning reports a non-fatal load problem, typically a malformed document
// that was excluded from the session.
type Warning struct {
	Err error
	ID  string
}

func (w Warning) String() string {
	return w.Err.Error()
}
