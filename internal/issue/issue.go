// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors with actionable context.
//
// An ActionableError says what operation failed, which resource was
// involved, and what the user can do about it. CLI handlers format these
// with suggestions; everything else in the error chain stays errors.Is/As
// compatible.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is an error with context for user-facing messages.
//
//	return issue.New("load configuration").
//		WithResource(path).
//		WithSuggestion("Set PACKAGE_SOURCES to a JSON array of \"bucket:key\" descriptors").
//		Wrap(err)
type ActionableError struct {
	// Operation describes what was being attempted (e.g. "fetch artifact").
	Operation string

	// Resource identifies the file, object, or entity involved (optional).
	Resource string

	// Suggestions are hints on how to fix the issue (optional).
	Suggestions []string

	// Cause is the underlying error (optional).
	Cause error
}

// New creates an ActionableError for the given operation.
func New(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// WithResource sets the resource and returns the error for chaining.
func (e *ActionableError) WithResource(resource string) *ActionableError {
	e.Resource = resource
	return e
}

// WithSuggestion appends one suggestion and returns the error for chaining.
func (e *ActionableError) WithSuggestion(suggestion string) *ActionableError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Wrap sets the underlying cause and returns the error for chaining.
func (e *ActionableError) Wrap(cause error) *ActionableError {
	e.Cause = cause
	return e
}

// Error implements the error interface with a concise single-line message.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display, with suggestions on their
// own lines. Verbose mode has no extra detail today; the parameter keeps
// the call sites uniform with flag wiring.
func (e *ActionableError) Format(_ bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())
	for _, s := range e.Suggestions {
		msg.WriteString("\n  → ")
		msg.WriteString(s)
	}
	return msg.String()
}

// FormatError renders any error for user display, using Format when the
// chain contains an ActionableError.
func FormatError(err error, verbose bool) string {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// Wrapf is shorthand for wrapping an error with an operation described by a
// format string. Returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return New(fmt.Sprintf(format, args...)).Wrap(err)
}
