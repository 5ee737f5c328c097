// Package errors provides custom error types for the gleaner system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the harvesting pipeline.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the gleaner system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates a harvest object with no stored payload
	ErrEmptyContent = errors.New("empty content")

	// ErrNoObject indicates a stage was invoked without a harvest object
	ErrNoObject = errors.New("no harvest object")

	// ErrRunFinished indicates an attempt to extend a run that already ended
	ErrRunFinished = errors.New("run finished")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
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
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// TransportError represents a failed or error-bearing catalog API exchange.
// A catalog response that arrives but carries an error body still produces
// a TransportError, with StatusCode holding the HTTP status when known.
type TransportError struct {
	Domain     string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog request to %s failed (status %d): %s", e.Domain, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog request to %s failed: %s", e.Domain, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// NewTransportError creates a new TransportError
func NewTransportError(domain string, statusCode int, message string) *TransportError {
	return &TransportError{
		Domain:     domain,
		StatusCode: statusCode,
		Message:    message,
	}
}

// MalformedDescriptorError reports a dataset descriptor that cannot be
// turned into a harvest object, usually because a required field is absent.
type MalformedDescriptorError struct {
	GUID    string
	Field   string
	Message string
}

// Error implements the error interface
func (e *MalformedDescriptorError) Error() string {
	if e.GUID != "" {
		return fmt.Sprintf("malformed descriptor %s: field %s: %s", e.GUID, e.Field, e.Message)
	}
	return fmt.Sprintf("malformed descriptor: field %s: %s", e.Field, e.Message)
}

// Is implements errors.Is support
func (e *MalformedDescriptorError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewMalformedDescriptorError creates a new MalformedDescriptorError
func NewMalformedDescriptorError(guid, field, message string) *MalformedDescriptorError {
	return &MalformedDescriptorError{GUID: guid, Field: field, Message: message}
}

// StoreAnomalyError reports local store state that violates an expected
// uniqueness assumption, such as one identifier matching several records.
// Callers typically log it and continue with the first match.
type StoreAnomalyError struct {
	Identifier string
	Matches    int
	Message    string
}

// Error implements the error interface
func (e *StoreAnomalyError) Error() string {
	return fmt.Sprintf("store anomaly for identifier %s (%d matches): %s", e.Identifier, e.Matches, e.Message)
}

// NewStoreAnomalyError creates a new StoreAnomalyError
func NewStoreAnomalyError(identifier string, matches int, message string) *StoreAnomalyError {
	return &StoreAnomalyError{Identifier: identifier, Matches: matches, Message: message}
}

// StoreOperationError represents a failed create, update, or delete against
// the record repository. Stage labels the pipeline stage that hit the failure.
type StoreOperationError struct {
	Stage     string
	Operation string // "create", "update", "delete", "show"
	GUID      string
	Err       error
}

// Error implements the error interface
func (e *StoreOperationError) Error() string {
	if e.GUID != "" {
		return fmt.Sprintf("%s stage: failed to %s record for %s: %v", e.Stage, e.Operation, e.GUID, e.Err)
	}
	return fmt.Sprintf("%s stage: failed to %s record: %v", e.Stage, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreOperationError) Unwrap() error {
	return e.Err
}

// NewStoreOperationError creates a new StoreOperationError
func NewStoreOperationError(stage, operation, guid string, err error) *StoreOperationError {
	return &StoreOperationError{
		Stage:     stage,
		Operation: operation,
		GUID:      guid,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEmptyContent checks if an error indicates a contentless harvest object
func IsEmptyContent(err error) bool {
	return errors.Is(err, ErrEmptyContent)
}

// IsNoObject checks if an error indicates a missing harvest object
func IsNoObject(err error) bool {
	return errors.Is(err, ErrNoObject)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStoreAnomaly checks if an error is a StoreAnomalyError
func IsStoreAnomaly(err error) bool {
	var se *StoreAnomalyError
	return errors.As(err, &se)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(domain, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{
		Domain:   domain,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

// WrapStore wraps an error as a StoreOperationError
func WrapStore(stage, operation, guid string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreOperationError(stage, operation, guid, err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
