// Package errors provides a lightweight structured error type (PkgForgeError)
// for category-based classification across the build pipeline and CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a pkgforge error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryCatalog    ErrorCategory = "catalog"
	CategoryStage      ErrorCategory = "stage"
	CategoryArchive    ErrorCategory = "archive"
	CategoryDocs       ErrorCategory = "docs"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External tool and infrastructure errors
	CategoryExec     ErrorCategory = "exec"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// PkgForgeError is a structured error with category, severity, and context
type PkgForgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PkgForgeError
type ContextFields map[string]any

// Error implements the error interface
func (e *PkgForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PkgForgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PkgForgeError) WithContext(key string, value any) *PkgForgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PkgForgeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PkgForgeError {
	return &PkgForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PkgForgeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PkgForgeError {
	return &PkgForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory reports whether err is a PkgForgeError of the given category,
// unwrapping as needed.
func IsCategory(err error, category ErrorCategory) bool {
	var pe *PkgForgeError
	if !stderrors.As(err, &pe) {
		return false
	}
	return pe.Category == category
}
