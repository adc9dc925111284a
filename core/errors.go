package core

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrPackNotFound is returned when an operation needs a pack directory that does not exist
	ErrPackNotFound = errors.New("pack not found")
	// ErrCorrupt is matched by every CorruptFileError
	ErrCorrupt = errors.New("corrupt file")
	// ErrIO is matched by every OpError, i.e. any underlying filesystem, decode or encode failure
	ErrIO = errors.New("i/o failure")
)

// ValidationError reports caller-supplied data rejected at the repository boundary.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// CorruptFileError reports a manifest or metadata file that exists but cannot be parsed.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error { return e.Err }

func (e *CorruptFileError) Is(target error) bool { return target == ErrCorrupt }

// OpError is the generic failure outcome of a repository operation. The cause is
// kept for its message but callers are not expected to tell causes apart.
type OpError struct {
	Op   string
	Pack string
	Err  error
}

func (e *OpError) Error() string {
	if e.Pack == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Pack, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == ErrIO }

// wrapOp converts whatever an operation returned into its outcome at the boundary.
// Validation, not-found and corruption keep their identity; everything else becomes an OpError.
func wrapOp(op, pack string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrPackNotFound) || errors.Is(err, ErrCorrupt) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return &OpError{Op: op, Pack: pack, Err: err}
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err means the pack does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPackNotFound)
}
