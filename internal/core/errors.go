package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist or is not
// visible to the calling user.
var ErrNotFound = errors.New("record not found")

// ValidationError is a caller-fixable failure. Fields maps each offending
// input field to one or more messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a message against field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field has been flagged.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns e when at least one field was flagged, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Resource string
	Value    string
	Err      error

	// Allocated is set when Value was generated rather than supplied by
	// the caller.
	Allocated bool
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Value)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the operation can succeed: only a
// generated value changes between attempts.
func (e *ConflictError) Retryable() bool { return e.Allocated }

// RenderError means a required rendering input was missing or unreadable.
// No partial document is ever returned alongside it.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render purchase order: %s: %v", e.Reason, e.Err)
	}
	return "render purchase order: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }
