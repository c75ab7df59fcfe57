// Package errors provides custom error types for the skaffolder system.
// Fatal conditions (fetch, parse, write) are typed so callers can decide
// whether to abort a single resource or the whole invocation.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As forward to the standard library so callers need a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the skaffolder system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetch indicates that discovery metadata was unreachable or malformed
	ErrFetch = errors.New("discovery fetch failed")

	// ErrDefinitionParse indicates that an existing definition file is malformed
	ErrDefinitionParse = errors.New("definition parse failed")

	// ErrWrite indicates that output could not be persisted
	ErrWrite = errors.New("write failed")

	// ErrUnavailable indicates that the discovery service is temporarily unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// FetchError represents a failure to obtain discovery metadata.
type FetchError struct {
	API        string // api id, e.g. "compute:v1"
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s failed (status %d): %s", e.API, e.StatusCode, e.Message)
	case e.URL != "":
		return fmt.Sprintf("fetch %s from %s failed: %s", e.API, e.URL, e.Message)
	default:
		return fmt.Sprintf("fetch %s failed: %s", e.API, e.Message)
	}
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	if target == ErrFetch {
		return true
	}
	if e.StatusCode >= 500 {
		return target == ErrUnavailable
	}
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// NewFetchError creates a new FetchError
func NewFetchError(api, url string, statusCode int, message string) *FetchError {
	return &FetchError{
		API:        api,
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// SchemaError reports a discovery document that cannot be normalized.
// It is a fetch-class failure: the metadata was obtained but is malformed.
type SchemaError struct {
	Schema  string
	Field   string
	Message string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed schema %s at %s: %s", e.Schema, e.Field, e.Message)
	}
	return fmt.Sprintf("malformed schema %s: %s", e.Schema, e.Message)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrFetch
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(schema, field, message string) *SchemaError {
	return &SchemaError{Schema: schema, Field: field, Message: message}
}

// DefinitionParseError represents a malformed resource definition.
type DefinitionParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *DefinitionParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in definition %s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in definition %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("definition parse error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DefinitionParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DefinitionParseError) Is(target error) bool {
	return target == ErrDefinitionParse
}

// NewDefinitionParseError creates a new DefinitionParseError
func NewDefinitionParseError(file, message string, err error) *DefinitionParseError {
	return &DefinitionParseError{File: file, Message: message, Err: err}
}

// WriteError represents a failure to persist output. A WriteError
// guarantees the target file was left untouched.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during a per-resource operation
type ResourceError struct {
	Operation string // "generate", "update", "write"
	Resource  string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		Message:   message,
		Err:       err,
	}
}

// BatchError collects per-resource failures from a batch run.
type BatchError struct {
	Errors []error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d resources failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns every collected error so errors.Is and errors.As see all of them.
func (e *BatchError) Unwrap() []error {
	return e.Errors
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFetch checks if an error is a discovery fetch error
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsDefinitionParse checks if an error is a definition parse error
func IsDefinitionParse(err error) bool {
	return errors.Is(err, ErrDefinitionParse)
}

// IsWrite checks if an error is a write error
func IsWrite(err error) bool {
	return errors.Is(err, ErrWrite)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapFetch wraps an error as a FetchError
func WrapFetch(api, url string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{API: api, URL: url, Message: err.Error(), Err: err}
}

// WrapDefinitionParse wraps an error as a DefinitionParseError
func WrapDefinitionParse(file string, err error) error {
	if err == nil {
		return nil
	}
	return NewDefinitionParseError(file, err.Error(), err)
}

// WrapWrite wraps an error as a WriteError
func WrapWrite(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, err)
}
