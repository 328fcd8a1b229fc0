package apperrors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below matches exactly one.
var (
	ErrLoad   = errors.New("load failed")
	ErrSchema = errors.New("schema mismatch")
	ErrWrite  = errors.New("write failed")
)

// LoadError reports an input resource that is missing, unreadable, or malformed.
type LoadError struct {
	Resource string
	Line     int // 0 when the failure is not tied to a row
	Err      error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Resource, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error        { return e.Err }
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// SchemaError reports an expected column absent from a table.
type SchemaError struct {
	Resource string
	Column   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: missing column %q", e.Resource, e.Column)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// WriteError reports an output destination that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error        { return e.Err }
func (e *WriteError) Is(target error) bool { return target == ErrWrite }
