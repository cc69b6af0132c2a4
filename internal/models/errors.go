package models

import "fmt"

// GeneratorError records a failure scoped to a single file of the batch
type GeneratorError struct {
	Type     ErrorType // type of error
	Exchange string    // exchange identifier being processed
	Backend  string    // backend being rendered, empty while parsing
	File     string    // file where error occurred
	Message  string    // error message
	Cause    error     // underlying error cause
}

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeParse ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
)

// String returns the name of the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeParse:
		return "parse"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	scope := e.Exchange
	if e.Backend != "" {
		scope = fmt.Sprintf("%s/%s", e.Exchange, e.Backend)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", scope, e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s", scope, e.Message)
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
