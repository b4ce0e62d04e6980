// Package errors provides typed errors for the projroot project.
//
// This package defines domain-specific error types that provide structured
// error information for the root search (criterion construction, start path
// handling, not-found results) and the configuration layer.
// All error types implement the standard error interface and support
// errors.Is() and errors.As() from the standard library and cockroachdb/errors.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// RootNotFoundError is returned when the upward search exhausted every
// ancestor (and, for a set, every entry) without a match.
type RootNotFoundError struct {
	Start    string   // Directory the search started from
	Criteria []string // Names or descriptions of the criteria attempted
}

// Error implements the error interface.
func (e *RootNotFoundError) Error() string {
	if len(e.Criteria) == 0 {
		return fmt.Sprintf("no root directory found in %s or its parent directories", e.Start)
	}
	return fmt.Sprintf("no root directory found in %s or its parent directories (tried: %s)",
		e.Start, strings.Join(e.Criteria, ", "))
}

// NewRootNotFoundError creates a new RootNotFoundError.
func NewRootNotFoundError(start string, criteria []string) *RootNotFoundError {
	return &RootNotFoundError{Start: start, Criteria: append([]string(nil), criteria...)}
}

// CompositionError is returned when criteria are combined from operands
// that cannot be turned into a criterion.
type CompositionError struct {
	Operand string // Go type or short rendering of the rejected operand
	Message string
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	if e.Operand != "" {
		return fmt.Sprintf("invalid criterion composition with %s: %s", e.Operand, e.Message)
	}
	return "invalid criterion composition: " + e.Message
}

// NewCompositionError creates a new CompositionError.
func NewCompositionError(operand, message string) *CompositionError {
	return &CompositionError{Operand: operand, Message: message}
}

// PatternError reports a malformed glob or regular expression handed to a
// pattern-based criterion.
type PatternError struct {
	Pattern string
	Kind    string // "glob" or "regex"
	Cause   error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s pattern %q: %v", e.Kind, e.Pattern, e.Cause)
	}
	return fmt.Sprintf("malformed %s pattern %q", e.Kind, e.Pattern)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// NewPatternError creates a new PatternError.
func NewPatternError(kind, pattern string, cause error) *PatternError {
	return &PatternError{Pattern: pattern, Kind: kind, Cause: cause}
}

// StartPathError is returned when the search start path cannot be used.
type StartPathError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *StartPathError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid start path %s: %v", e.Path, e.Cause)
	}
	return "invalid start path " + e.Path
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *StartPathError) Unwrap() error {
	return e.Cause
}

// NewStartPathError creates a new StartPathError.
func NewStartPathError(path string, cause error) *StartPathError {
	return &StartPathError{Path: path, Cause: cause}
}

// FileNotFoundError is returned by existence-checking resolution when the
// root was found but the joined path does not exist.
type FileNotFoundError struct {
	Path string // Joined absolute path
	Root string // Root directory it was resolved against
}

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found below root %s", e.Path, e.Root)
}

// NewFileNotFoundError creates a new FileNotFoundError.
func NewFileNotFoundError(path, root string) *FileNotFoundError {
	return &FileNotFoundError{Path: path, Root: root}
}

// InvalidPathError reports path components that cannot be joined to a root.
type InvalidPathError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Message)
}

// NewInvalidPathError creates a new InvalidPathError.
func NewInvalidPathError(path, message string) *InvalidPathError {
	return &InvalidPathError{Path: path, Message: message}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// PolicyError represents an unknown or malformed root policy.
type PolicyError struct {
	Policy  string // Policy name, e.g. "here"
	Entry   string // Entry inside the policy, if any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("policy %s entry %s: %s", e.Policy, e.Entry, e.Message)
	}
	return fmt.Sprintf("policy %s: %s", e.Policy, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *PolicyError) Unwrap() error {
	return e.Cause
}

// NewPolicyError creates a new PolicyError.
func NewPolicyError(policy, message string) *PolicyError {
	return &PolicyError{Policy: policy, Message: message}
}

// NewPolicyErrorWithCause creates a new PolicyError for an entry with an underlying cause.
func NewPolicyErrorWithCause(policy, entry, message string, cause error) *PolicyError {
	return &PolicyError{Policy: policy, Entry: entry, Message: message, Cause: cause}
}

// IsRootNotFound checks if an error or any error in its chain is a RootNotFoundError.
func IsRootNotFound(err error) bool {
	var notFound *RootNotFoundError
	return errors.As(err, &notFound)
}

// IsCompositionError checks if an error or any error in its chain is a CompositionError.
func IsCompositionError(err error) bool {
	var compErr *CompositionError
	return errors.As(err, &compErr)
}

// IsPatternError checks if an error or any error in its chain is a PatternError.
func IsPatternError(err error) bool {
	var patErr *PatternError
	return errors.As(err, &patErr)
}

// IsStartPathError checks if an error or any error in its chain is a StartPathError.
func IsStartPathError(err error) bool {
	var startErr *StartPathError
	return errors.As(err, &startErr)
}

// IsFileNotFound checks if an error or any error in its chain is a FileNotFoundError.
func IsFileNotFound(err error) bool {
	var fileErr *FileNotFoundError
	return errors.As(err, &fileErr)
}

// IsInvalidPathError checks if an error or any error in its chain is an InvalidPathError.
func IsInvalidPathError(err error) bool {
	var pathErr *InvalidPathError
	return errors.As(err, &pathErr)
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsPolicyError checks if an error or any error in its chain is a PolicyError.
func IsPolicyError(err error) bool {
	var policyErr *PolicyError
	return errors.As(err, &policyErr)
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use projerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
