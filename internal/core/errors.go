package core

import (
	"errors"
	"fmt"
)

// File-stage errors. Each one needs different guidance for the user, so
// callers tell them apart with errors.Is rather than by message.
var (
	ErrInvalidFormat = errors.New("invalid file format")
	ErrFileTooLarge  = errors.New("file too large")
	ErrEmptyFile     = errors.New("empty file")
	ErrParse         = errors.New("parse error")
)

// Pipeline and session errors.
var (
	ErrNoFile            = errors.New("no file provided")
	ErrDuplicateCheck    = errors.New("duplicate check failed")
	ErrBatchImport       = errors.New("batch import failed")
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrSessionNotFound   = errors.New("import session not found")
	ErrInvalidTenant     = errors.New("invalid tenant id")
)

// FileError reports why an uploaded file was rejected.
// Kind is one of ErrInvalidFormat, ErrFileTooLarge, ErrEmptyFile or ErrParse.
type FileError struct {
	Kind     error
	FileName string
	Err      error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.FileName, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.FileName, e.Kind)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFileError(kind error, fileName string, cause error) *FileError {
	return &FileError{Kind: kind, FileName: fileName, Err: cause}
}

// TransitionError reports an operation attempted in the wrong wizard state.
type TransitionError struct {
	Op    string
	State WizardState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while in %s state", ErrInvalidTransition, e.Op, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
