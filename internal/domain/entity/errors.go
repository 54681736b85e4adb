package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedContentType indicates that no text extractor handles the declared content kind
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrExtractionFailed indicates that a supported document could not be converted to text
	ErrExtractionFailed = errors.New("text extraction failed")
)

// ValidationError represents a validation error with detailed field information.
// It is detected before any external service is called, so no partial work exists
// when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is reports ErrInvalidInput as the category of every validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ServiceError wraps a failure raised by an external capability (summarization,
// question answering). Op names the failed operation and becomes the message prefix.
type ServiceError struct {
	Op  string
	Err error
}

// Operation names used as ServiceError prefixes.
const (
	OpSummarization = "Summarization"
	OpModel         = "Model"
)

// Error returns the prefixed message, e.g. "Summarization error: upstream timeout".
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Op + " error"
	}
	return fmt.Sprintf("%s error: %s", e.Op, e.Err.Error())
}

// Unwrap returns the underlying service error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err as a ServiceError for the given operation.
// A nil err yields nil.
func NewServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Op: op, Err: err}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsService reports whether err is, or wraps, a ServiceError.
func IsService(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
